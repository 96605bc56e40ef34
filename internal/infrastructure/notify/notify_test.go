package notify

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/internal/core/apperror"
	"backoffice/pkg/logger"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "Error desconocido."},
		{"empty string", "", "Error desconocido."},
		{"string", "algo falló", "algo falló"},
		{"plain error", errors.New("boom"), "boom"},
		{"transport detail", &apperror.TransportError{Status: 400, Body: []byte(`{"detail":"Estado inválido"}`)}, "Estado inválido"},
		{"wrapped transport", fmt.Errorf("save: %w", &apperror.TransportError{Status: 409, Body: []byte(`{"detail":{"status":"TIENE_HIJOS_ACTIVOS","message":"bloqueado"}}`)}), "bloqueado"},
		{"other", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.in))
		})
	}
}

func TestSink_PrintsLines(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(logger.Default(), &out)

	sink.Success("Rubro creado", "Código: A1")
	sink.Info("Sin cambios", "")
	sink.Error("Error", errors.New("boom"))

	assert.Equal(t, "[success] Rubro creado: Código: A1\n[info] Sin cambios\n[error] Error: boom\n", out.String())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	_, ok := r.Last()
	assert.False(t, ok)

	r.Warn("Conflicto", "x")
	r.Success("ok", "")
	r.Warn("Bloqueo de Baja", "y")

	assert.Len(t, r.All(), 3)
	assert.Len(t, r.BySeverity(SeverityWarn), 2)
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{SeverityWarn, "Bloqueo de Baja", "y"}, last)

	r.Reset()
	assert.Empty(t, r.All())
}
