package field

import (
	"testing"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFieldSuite(t *testing.T) {
	RegisterFailHandler(g.Fail)
	g.RunSpecs(t, "Field Suite")
}
