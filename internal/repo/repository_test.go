package repo_test

import (
	"testing"

	"github.com/hamed0406/hostmon/internal/repo"
	"github.com/hamed0406/hostmon/internal/repo/memory"
	pg "github.com/hamed0406/hostmon/internal/repo/postgres"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.EventStore = memory.New(0)
	var _ repo.EventStore = (*pg.Store)(nil)
}
