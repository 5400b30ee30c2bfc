package pool

// block is one element of the pool sequence. A block is free iff owner is empty.
type block struct {
	size  int
	owner string
}

func (b block) isFree() bool { return b.owner == "" }

// Claim reports what SplitOrClaim did.
type Claim struct {
	Index     int  // index of the allocated block (unchanged by the split)
	Offset    int  // address of the allocated block
	BlockSize int  // size of the free block before it was claimed
	Split     bool // true if a free remainder was inserted after the block
}
