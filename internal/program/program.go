// Package program represents an assembled CHIP-8 program image.
package program

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8asm/internal/ast"
)

// Item is one statement of the program placed at an address.
type Item struct {
	Statement ast.Statement
	Address   uint16
	Size      int    // number of bytes the statement occupies
	Data      []byte // emitted bytes, set by the encoder

	Type ItemType
}

// HexCodeComment returns the emitted bytes as a space separated hex string.
func (i *Item) HexCodeComment() string {
	var b strings.Builder
	for j, v := range i.Data {
		if j > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

// Program defines a CHIP-8 program image that is loaded at a base address.
type Program struct {
	Base  uint16
	Items []*Item
	size  int
}

// New creates a new empty program that is loaded at the given base address.
func New(base uint16) *Program {
	return &Program{
		Base: base,
	}
}

// Add appends an item to the program.
func (p *Program) Add(item *Item) {
	p.Items = append(p.Items, item)
	p.size += item.Size
}

// Size returns the total number of bytes of all items.
func (p *Program) Size() int {
	return p.size
}

// End returns the address after the last byte of the program. The result
// can be 0x10000 for a program that fills the complete address space.
func (p *Program) End() int {
	return int(p.Base) + p.size
}

// Bytes returns the emitted image. All items must have been encoded.
func (p *Program) Bytes() ([]byte, error) {
	image := make([]byte, 0, p.size)
	for _, item := range p.Items {
		if len(item.Data) != item.Size {
			return nil, fmt.Errorf("item '%s' at $%04X has %d bytes encoded but a size of %d",
				item.Statement, item.Address, len(item.Data), item.Size)
		}
		image = append(image, item.Data...)
	}
	return image, nil
}
