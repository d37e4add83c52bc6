package playback_test

import (
	"testing"
	"time"

	"github.com/Pickles91/ContiguousMemoryAllocation/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type modelHelper struct {
	t     *testing.T
	model playback.Model
	cmd   tea.Cmd
}

func (h *modelHelper) send(msg tea.Msg) *modelHelper {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(playback.Model)
	h.cmd = cmd
	return h
}

func (h *modelHelper) sendKey(keyType tea.KeyType) *modelHelper {
	return h.send(tea.KeyMsg{Type: keyType})
}

func (h *modelHelper) sendKeyRune(r rune) *modelHelper {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestModelNavigation(t *testing.T) {
	h := &modelHelper{t: t, model: playback.NewModel(unevenResults(t), time.Second, false)}
	require.Nil(t, h.model.Init())

	h.sendKey(tea.KeyLeft)
	require.Equal(t, 0, h.model.Index())

	h.sendKey(tea.KeyRight).sendKeyRune('l')
	require.Equal(t, 2, h.model.Index())

	h.sendKey(tea.KeyRight)
	require.Equal(t, 2, h.model.Index())

	h.sendKeyRune('h')
	require.Equal(t, 1, h.model.Index())

	h.sendKeyRune('g')
	require.Equal(t, 0, h.model.Index())

	h.sendKeyRune('G')
	require.Equal(t, 2, h.model.Index())

	h.sendKeyRune('q')
	require.NotNil(t, h.cmd)
	require.Equal(t, tea.Quit(), h.cmd())
}

func TestModelAutoPlay(t *testing.T) {
	h := &modelHelper{t: t, model: playback.NewModel(unevenResults(t), time.Millisecond, true)}
	require.True(t, h.model.Playing())

	cmd := h.model.Init()
	require.NotNil(t, cmd)
	advance := cmd()

	h.send(advance)
	require.Equal(t, 1, h.model.Index())
	require.NotNil(t, h.cmd)

	// Pausing invalidates the timer that is already running
	stale := h.cmd()
	h.sendKeyRune('p')
	require.False(t, h.model.Playing())
	h.send(stale)
	require.Equal(t, 1, h.model.Index())

	h.sendKeyRune('p')
	require.True(t, h.model.Playing())
	h.send(h.cmd())
	require.Equal(t, 2, h.model.Index())

	// Reaching the last frame stops playback
	h.send(h.cmd())
	require.Equal(t, 2, h.model.Index())
	require.False(t, h.model.Playing())
}

func TestModelView(t *testing.T) {
	h := &modelHelper{t: t, model: playback.NewModel(unevenResults(t), time.Second, false)}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := h.model.View()
	require.Contains(t, view, "frame 1/3")
	require.Contains(t, view, "paused")
	require.Contains(t, view, "Best Fit")
	require.Contains(t, view, "Next Fit")
	require.Contains(t, view, "(no snapshots)")
	require.Contains(t, view, "REMAINING REQUESTS: [P1[1s](16KB)]")

	h.sendKey(tea.KeyEnd)
	require.Contains(t, h.model.View(), "finished after tick 1")
}
