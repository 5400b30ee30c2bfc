// Package placement implements the policies that choose which free block
// satisfies an allocation request.
//
// Every policy is a pure function over a read-only View of the pool: it only
// considers free blocks with size >= the request and reports "no fit" with
// ok == false. Nothing here mutates the pool; next-fit reads the cursor and
// the caller advances it after a successful allocation.
//
//	Policy     Scan order                     Choice among qualifying blocks
//	first-fit  0 .. n-1                       first one seen
//	next-fit   cursor .. n-1, then 0 .. cursor-1  first one seen
//	best-fit   0 .. n-1                       smallest size, earliest on ties
//	worst-fit  0 .. n-1                       largest size, earliest on ties
package placement
