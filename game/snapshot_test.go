package game

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig()
	h, err := NewHand(cfg, 150, 2, 21)
	require.NoError(t, err)

	// Advance into the thick of the hand before capturing
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 7 && !h.IsTerminal(); i++ {
		actor, _ := h.CurrentActor()
		legal := h.LegalActions(actor)
		h, err = h.Apply(actor, legal[rng.Intn(len(legal))])
		require.NoError(t, err)
	}

	data, err := json.Marshal(h.Snapshot())
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	restored, err := RestoreHand(&decoded)
	require.NoError(t, err)

	require.Equal(t, h.Hash(), restored.Hash(), "the restored hand is the captured hand")
	if actor, ok := h.CurrentActor(); ok {
		require.Equal(t, actionKeys(h.LegalActions(actor)), actionKeys(restored.LegalActions(actor)),
			"capture and restore preserve the legal set")
	}
}

func TestSnapshotSharesNothing(t *testing.T) {
	cfg := testConfig()
	h, err := NewHand(cfg, 0, 0, 23)
	require.NoError(t, err)

	snap := h.Snapshot()
	snap.Seats[0].Hand[0] = Card{Spade, Asso}
	snap.Deck[0] = Card{Spade, Asso}
	require.NoError(t, h.Verify(), "mutating the snapshot must not corrupt the hand")
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	cfg := testConfig()
	h, err := NewHand(cfg, 0, 1, 29)
	require.NoError(t, err)

	t.Run("seat count mismatch", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Seats = snap.Seats[:2]
		_, err := RestoreHand(snap)
		require.Error(t, err)
	})

	t.Run("dealer out of range", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Dealer = 9
		_, err := RestoreHand(snap)
		require.Error(t, err)
	})

	t.Run("turn cursor out of range", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Turn = 99
		_, err := RestoreHand(snap)
		require.Error(t, err)
	})

	t.Run("pending discard without an entry", func(t *testing.T) {
		snap := h.Snapshot()
		snap.PendingDiscard = 0
		_, err := RestoreHand(snap)
		require.Error(t, err)
	})

	t.Run("play with one participant", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Phase = PhasePlay
		snap.Order = []ParticipantID{SeatID(0)}
		_, err := RestoreHand(snap)
		require.Error(t, err)
	})

	t.Run("duplicated card", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Deck[0] = snap.Seats[0].Hand[0]
		_, err := RestoreHand(snap)
		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
	})

	t.Run("invalid config", func(t *testing.T) {
		snap := h.Snapshot()
		snap.Config.MaxExchange = 7
		_, err := RestoreHand(snap)
		var malformed *MalformedConfigurationError
		require.ErrorAs(t, err, &malformed)
	})
}
