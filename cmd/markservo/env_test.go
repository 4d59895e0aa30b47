package main

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func testFlags() (*pflag.FlagSet, *string, *int) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	level := fs.String("log-level", "info", "")
	workers := fs.Int("workers", 0, "")
	return fs, level, workers
}

func TestApplyEnv(t *testing.T) {
	g := NewWithT(t)
	t.Setenv("MARKSERVO_LOG_LEVEL", "debug")
	t.Setenv("MARKSERVO_WORKERS", "3")

	fs, level, workers := testFlags()
	g.Expect(fs.Parse(nil)).To(Succeed())
	g.Expect(applyEnv(fs)).To(Succeed())
	g.Expect(*level).To(Equal("debug"))
	g.Expect(*workers).To(Equal(3))
	g.Expect(fs.Changed("workers")).To(BeTrue(), "a flag set from env counts as changed")
}

func TestApplyEnvFlagWins(t *testing.T) {
	g := NewWithT(t)
	t.Setenv("MARKSERVO_LOG_LEVEL", "debug")

	fs, level, _ := testFlags()
	g.Expect(fs.Parse([]string{"--log-level", "warn"})).To(Succeed())
	g.Expect(applyEnv(fs)).To(Succeed())
	g.Expect(*level).To(Equal("warn"))
}

func TestApplyEnvBadValue(t *testing.T) {
	g := NewWithT(t)
	t.Setenv("MARKSERVO_WORKERS", "many")

	fs, _, _ := testFlags()
	g.Expect(applyEnv(fs)).To(MatchError(ContainSubstring("MARKSERVO_WORKERS")))
}
