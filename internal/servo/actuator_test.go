package servo

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

var _ = Describe("LogActuator", func() {
	It("logs one field per axis", func() {
		var buf bytes.Buffer
		a := NewLogActuator(zerolog.New(&buf), []string{"pan", "tilt"})

		Expect(a.Apply(context.Background(), Command{Frame: 3, Outputs: []float64{1.5, -2, 7}, Held: true})).To(Succeed())

		var entry map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry).To(HaveKeyWithValue("component", "actuator"))
		Expect(entry).To(HaveKeyWithValue("frame", 3.0))
		Expect(entry).To(HaveKeyWithValue("held", true))
		Expect(entry).To(HaveKeyWithValue("pan", 1.5))
		Expect(entry).To(HaveKeyWithValue("tilt", -2.0))
		Expect(entry).To(HaveKeyWithValue("u", 7.0))
		Expect(entry).To(HaveKeyWithValue("message", "command"))
	})

	It("adapts a function", func() {
		var got Command
		f := ActuatorFunc(func(ctx context.Context, cmd Command) error {
			got = cmd
			return nil
		})
		Expect(f.Apply(context.Background(), Command{Frame: 1})).To(Succeed())
		Expect(got.Frame).To(Equal(1))
	})
})
