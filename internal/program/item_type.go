package program

// ItemType defines the type of a program item.
type ItemType uint8

// item types.
const (
	UnknownItem ItemType = 0
	CodeItem    ItemType = 1 << iota
	DataItem
	FillItem  // zero filled space reserved by an offset directive
	LabelItem // label declaration, emits no bytes
)

// IsType returns whether the item is of given type.
func (i *Item) IsType(typ ItemType) bool {
	return i.Type&typ != 0
}

// SetType sets the type of the item.
func (i *Item) SetType(typ ItemType) {
	i.Type |= typ
}
