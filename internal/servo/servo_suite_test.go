package servo

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestServo(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Servo Suite")
}
