package view

import (
	"math"

	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// Describer fills the type-specific fields of a freshly created directory
// page.
type Describer func(node *entry.DirectoryNode)

// OwnerDirDescriber marks pages of owner's directory.
func OwnerDirDescriber(owner types.AccountID) Describer {
	return func(node *entry.DirectoryNode) {
		node.Owner = owner
	}
}

// BookDirDescriber marks pages of an order book directory.
func BookDirDescriber(paysCurrency types.Currency, paysIssuer types.AccountID, getsCurrency types.Currency, getsIssuer types.AccountID) Describer {
	return func(node *entry.DirectoryNode) {
		node.TakerPaysCurrency = paysCurrency
		node.TakerPaysIssuer = paysIssuer
		node.TakerGetsCurrency = getsCurrency
		node.TakerGetsIssuer = getsIssuer
	}
}

func pageKey(root types.Hash256, page uint64) types.Hash256 {
	return keylet.DirPage(root, page).Key
}

// DirAdd appends index to the directory rooted at root and returns the page
// it landed on. Entries are only ever appended, to the last page or to a new
// page linked after it.
func (s *EntrySet) DirAdd(root, index types.Hash256, describe Describer) (uint64, ter.Result) {
	rootNode := s.DirNode(root)
	if rootNode == nil {
		rootNode = &entry.DirectoryNode{RootIndex: root}
		if describe != nil {
			describe(rootNode)
		}
		rootNode.Indexes = append(rootNode.Indexes, index)
		s.EntryCreate(root, rootNode)
		return 0, ter.TesSUCCESS
	}

	page := rootNode.IndexPrevious
	node := rootNode
	if page != 0 {
		node = s.DirNode(pageKey(root, page))
		if node == nil {
			log.Warn("dirAdd: last page missing", "root", root, "page", page)
			return 0, ter.TefBAD_LEDGER
		}
	}

	if len(node.Indexes) < s.dirNodeMax {
		node.Indexes = append(node.Indexes, index)
		s.EntryModify(pageKey(root, page), node)
		return page, ter.TesSUCCESS
	}

	if page == math.MaxUint64 {
		return 0, ter.TecDIR_FULL
	}
	page++

	// Link the old last page to the new one.
	if page == 1 {
		rootNode.IndexNext = page
	} else {
		node.IndexNext = page
		s.EntryModify(pageKey(root, page-1), node)
	}
	rootNode.IndexPrevious = page
	s.EntryModify(root, rootNode)

	fresh := &entry.DirectoryNode{
		RootIndex: root,
		Indexes:   []types.Hash256{index},
	}
	if page > 1 {
		fresh.IndexPrevious = page - 1
	}
	if describe != nil {
		describe(fresh)
	}
	s.EntryCreate(pageKey(root, page), fresh)

	log.Debug("dirAdd: new page", "root", root, "page", page)
	return page, ter.TesSUCCESS
}

// DirDelete removes index from page of the directory rooted at root. With
// stable set the remaining entries keep their order, otherwise the last
// entry takes the removed one's slot. Emptied pages are unlinked, and an
// emptied directory is removed entirely unless keepRoot is set.
func (s *EntrySet) DirDelete(keepRoot bool, page uint64, root, index types.Hash256, stable bool) ter.Result {
	key := pageKey(root, page)
	node := s.DirNode(key)
	if node == nil {
		log.Warn("dirDelete: no such page", "root", root, "page", page, "index", index)
		return ter.TefBAD_LEDGER
	}

	pos := -1
	for i, idx := range node.Indexes {
		if idx == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		log.Warn("dirDelete: no such entry", "root", root, "page", page, "index", index)
		return ter.TefBAD_LEDGER
	}

	last := len(node.Indexes) - 1
	if stable {
		node.Indexes = append(node.Indexes[:pos], node.Indexes[pos+1:]...)
	} else {
		node.Indexes[pos] = node.Indexes[last]
		node.Indexes = node.Indexes[:last]
	}
	s.EntryModify(key, node)

	if len(node.Indexes) != 0 {
		return ter.TesSUCCESS
	}

	prev, next := node.IndexPrevious, node.IndexNext

	switch {
	case page == 0:
		// Emptied the root.
		switch {
		case prev == 0:
			s.EntryDelete(key, node)
		case keepRoot, prev != next:
		default:
			// Only the root and one more page remain.
			lastKey := pageKey(root, next)
			lastNode := s.DirNode(lastKey)
			if lastNode == nil {
				return ter.TefBAD_LEDGER
			}
			if len(lastNode.Indexes) == 0 {
				s.EntryDelete(key, node)
				s.EntryDelete(lastKey, lastNode)
			}
		}

	case next != 0:
		// Interior page: unlink it.
		prevKey, nextKey := pageKey(root, prev), pageKey(root, next)
		prevNode, nextNode := s.DirNode(prevKey), s.DirNode(nextKey)
		if prevNode == nil || nextNode == nil {
			log.Warn("dirDelete: broken page links", "root", root, "page", page)
			return ter.TefBAD_LEDGER
		}
		prevNode.IndexNext = next
		s.EntryModify(prevKey, prevNode)
		nextNode.IndexPrevious = prev
		s.EntryModify(nextKey, nextNode)
		s.EntryDelete(key, node)

	case keepRoot || prev != 0:
		// Last page with earlier pages still in use.

	default:
		// Last page and the only page besides the root.
		rootNode := s.DirNode(root)
		if rootNode == nil {
			return ter.TefBAD_LEDGER
		}
		if len(rootNode.Indexes) == 0 {
			s.EntryDelete(root, rootNode)
			s.EntryDelete(key, node)
		}
	}

	return ter.TesSUCCESS
}

// DirCursor walks a directory page by page.
type DirCursor struct {
	root types.Hash256
	page uint64
	node *entry.DirectoryNode
	next int
}

// Page returns the number of the page the cursor is on.
func (c *DirCursor) Page() uint64 { return c.page }

// DirFirst positions a cursor at the start of the directory rooted at root
// and returns its first entry. ok is false for an empty or missing
// directory.
func (s *EntrySet) DirFirst(root types.Hash256) (c *DirCursor, index types.Hash256, ok bool) {
	c = &DirCursor{root: root, node: s.DirNode(root)}
	if c.node == nil {
		return c, types.Hash256{}, false
	}
	index, ok = s.DirNext(c)
	return c, index, ok
}

// DirNext returns the entry after the one last returned for c.
func (s *EntrySet) DirNext(c *DirCursor) (types.Hash256, bool) {
	for c.node != nil {
		if c.next < len(c.node.Indexes) {
			idx := c.node.Indexes[c.next]
			c.next++
			return idx, true
		}
		if c.node.IndexNext == 0 {
			break
		}
		c.page = c.node.IndexNext
		c.node = s.DirNode(pageKey(c.root, c.page))
		c.next = 0
	}
	return types.Hash256{}, false
}

// DirCount returns the number of entries across all pages of a directory.
func (s *EntrySet) DirCount(root types.Hash256) (uint32, ter.Result) {
	var count uint32
	var page uint64
	for {
		node := s.DirNode(pageKey(root, page))
		if node == nil {
			if page != 0 {
				log.Warn("dirCount: no such page", "root", root, "page", page)
				return 0, ter.TefBAD_LEDGER
			}
			return 0, ter.TesSUCCESS
		}
		count += uint32(len(node.Indexes))
		page = node.IndexNext
		if page == 0 {
			return count, ter.TesSUCCESS
		}
	}
}
