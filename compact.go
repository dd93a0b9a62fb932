package congc

// computeLocations assigns every surviving record a forwarding address using
// two cursors, live and free, both starting at the list head. live visits
// every record; whenever it finds a marked one, that record's forward
// becomes free's current address, and free advances by one record. Garbage
// records never receive a forward.
func (c *Collector) computeLocations() {
	live := c.list.head
	free := c.list.head
	for live != nil {
		if live.mark {
			live.forward = free.addr
			free = free.next
		}
		live = live.next
	}
}

// updateReferences rewrites every reference to a forwarded block, in roots
// and inside every live block's interior. It runs before relocate, while
// every record's addr field still names its pre-compaction location.
func (c *Collector) updateReferences(roots []rootRef) {
	for _, r := range roots {
		v, ok := c.records.Lookup(r.value)
		if !ok {
			continue
		}
		rec := v.(*record)
		if rec.forward != 0 {
			rewriteSlot(r.slotAddr, rec.forward)
		}
	}

	for cur := c.list.head; cur != nil; cur = cur.next {
		if !cur.mark {
			continue
		}
		for off := 0; off+wordSize <= cur.size; off += wordSize {
			w := c.heap.ReadWord(cur.addr + uintptr(off))
			if w == 0 {
				continue
			}
			if uintptr(w)%uintptr(wordSize) != 0 {
				continue
			}
			v, ok := c.records.Lookup(w)
			if !ok {
				continue
			}
			target := v.(*record)
			if target.forward != 0 {
				c.heap.WriteWord(cur.addr+uintptr(off), target.forward)
			}
		}
	}
}

// relocate performs the single forward pass that copies each survivor's
// bytes to its forwarding address, rebinds its bookkeeping under the new
// address, and frees the trailing garbage slots itself, rather than leaving
// that to the sweep that follows.
//
// The copy is safe as a forward byte copy because computeLocations only ever
// assigns a forwarding address equal to that of a record at an earlier or
// equal list position, and this loop processes the list in that same order
// — by the time a record's old address is overwritten as someone else's
// destination, that record (if it was itself a survivor) has already been
// copied out.
//
// A garbage record's original address may end up reused as a survivor's
// destination. Its list node is always unlinked here; its address-set and
// metadata-map entry is only removed if nothing has since overwritten it
// with the relocated survivor now living there.
//
// Finally the arena frontier moves back to the end of the highest surviving
// block, so the bytes above it are handed out again by later Allocs.
func (c *Collector) relocate() (garbage int) {
	var trash []*record
	for cur := c.list.head; cur != nil; cur = cur.next {
		if !cur.mark {
			garbage++
			trash = append(trash, cur)
			continue
		}
		oldAddr := cur.addr
		newAddr := cur.forward
		if newAddr == 0 {
			newAddr = oldAddr
		}
		if newAddr != oldAddr {
			c.heap.CopyWithin(newAddr, oldAddr, cur.size)
			c.addrs.Delete(oldAddr)
			c.records.Delete(oldAddr)
			cur.addr = newAddr
			c.addrs.Insert(newAddr)
			c.records.Insert(newAddr, cur)
		}
		cur.forward = 0
		cur.mark = true
	}

	for _, g := range trash {
		c.list.unlink(g)
		if v, ok := c.records.Lookup(g.addr); ok && v.(*record) == g {
			c.addrs.Delete(g.addr)
			c.records.Delete(g.addr)
		}
	}

	frontier := wordSize
	for cur := c.list.head; cur != nil; cur = cur.next {
		if end := int(cur.addr) + alignUp(cur.size); end > frontier {
			frontier = end
		}
	}
	c.heap.nextFree = frontier
	return garbage
}
