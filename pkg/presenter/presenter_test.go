package presenter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewWithOptions(&out, &errOut, ColorNever)
	return p, &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		p, out, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "reading skill")
		assert.Contains(t, errOut.String(), "[ERROR] reading skill: boom")
		assert.Empty(t, out.String())
	})

	t.Run("without context", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "")
		assert.Contains(t, errOut.String(), "[ERROR] boom")
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(nil, "context")
		assert.Empty(t, errOut.String())
	})
}

func TestSuccessWarningInfo(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed")
	p.Warning("careful")
	p.Info("just so you know")

	assert.Contains(t, out.String(), "✓ installed")
	assert.Contains(t, out.String(), "⚠ careful")
	assert.Contains(t, out.String(), "just so you know")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Skills")
	assert.Contains(t, out.String(), "Skills\n------\n")
}

func TestQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("hidden")
	p.Warning("hidden")
	p.Info("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors are always shown
	p.Error(errors.New("still visible"), "")
	assert.Contains(t, errOut.String(), "still visible")
}
