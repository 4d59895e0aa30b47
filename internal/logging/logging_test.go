package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	g := NewWithT(t)

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		g.Expect(ParseLevel(tt.in)).To(Equal(tt.want), "ParseLevel(%q)", tt.in)
	}
}

func TestNewJSON(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})

	log.Info().Msg("dropped")
	log.Warn().Int("id", 7).Msg("marker lost")

	var entry map[string]any
	g.Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
	g.Expect(entry).To(HaveKeyWithValue("level", "warn"))
	g.Expect(entry).To(HaveKeyWithValue("message", "marker lost"))
	g.Expect(entry).To(HaveKeyWithValue("id", 7.0))
	g.Expect(entry).To(HaveKey("time"))
}
