package powertrain

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPowertrainScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Powertrain Scenarios")
}
