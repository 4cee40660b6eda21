package memory_test

import (
	"testing"

	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/ports"
)

func TestSequenceStore_Contract(t *testing.T) {
	ports.RunSequenceStoreContract(t, memory.NewSequenceStore())
}
