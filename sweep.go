package congc

// sweep iterates every entry in the address set, freeing unmarked blocks and
// clearing the mark bit on survivors. The set's iterator is required to
// tolerate deletion of the entry it just yielded, which is exactly what
// internal/objset.Iterator guarantees.
func (c *Collector) sweep() (swept, bytesReclaimed int) {
	it := c.addrs.Iterate()
	defer it.Close()

	var survivors []uintptr
	for it.HasNext() {
		addr := it.Next()
		v, ok := c.records.Lookup(addr)
		if !ok {
			continue
		}
		rec := v.(*record)
		if !rec.mark {
			swept++
			bytesReclaimed += rec.size
			c.release(addr)
			continue
		}
		survivors = append(survivors, addr)
	}
	for _, addr := range survivors {
		if v, ok := c.records.Lookup(addr); ok {
			v.(*record).mark = false
		}
	}
	return swept, bytesReclaimed
}
