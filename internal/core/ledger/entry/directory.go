package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/types"
)

// DirectoryNode is one page of a directory. The root page keeps IndexPrevious
// pointing at the last page (0 when the root is the only page). Owner
// directories set Owner; book directories set the four book fields.
type DirectoryNode struct {
	RootIndex     types.Hash256
	Indexes       []types.Hash256
	IndexNext     uint64
	IndexPrevious uint64

	Owner             types.AccountID
	TakerPaysCurrency types.Currency
	TakerPaysIssuer   types.AccountID
	TakerGetsCurrency types.Currency
	TakerGetsIssuer   types.AccountID
}

func (d *DirectoryNode) Type() Type { return TypeDirectoryNode }

func (d *DirectoryNode) isEntry() {}

func (d *DirectoryNode) Validate() error {
	seen := make(map[types.Hash256]struct{}, len(d.Indexes))
	for _, idx := range d.Indexes {
		if _, ok := seen[idx]; ok {
			return fmt.Errorf("%w: duplicate directory index %s", ErrInvalidEntry, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

func (d *DirectoryNode) Clone() Entry {
	c := *d
	if d.Indexes != nil {
		c.Indexes = append([]types.Hash256(nil), d.Indexes...)
	}
	return &c
}
