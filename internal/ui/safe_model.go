package ui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

// SafeModel recovers panics raised by the root model. A panic in Update
// returns the user to the catalog with an error banner; one in View renders
// a short notice.
type SafeModel struct {
	m   Model
	log *slog.Logger
}

// WrapSafe wraps m. A nil logger discards the panic records.
func WrapSafe(m Model, log *slog.Logger) SafeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return SafeModel{m: m, log: log}
}

func (s SafeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s SafeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "ui.update",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			s.m = s.m.recovered()
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)

	if mm, ok := inner.(Model); ok {
		s.m = mm
	} else if sm, ok := inner.(SafeModel); ok {
		s = sm
	}

	return s, c
}

func (s SafeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "ui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = unexpectedErrorText()
		}
	}()
	return s.m.View()
}

var _ tea.Model = (*SafeModel)(nil)
