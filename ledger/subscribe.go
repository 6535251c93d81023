package ledger

// Subscribe returns a channel receiving every block committed from now on,
// and a function that ends the subscription and closes the channel.
func (bc *Blockchain) Subscribe() (<-chan Block, func()) {
	bc.subMu.Lock()
	defer bc.subMu.Unlock()

	id := bc.nextSub
	bc.nextSub++
	ch := make(chan Block, bc.buffer)
	bc.subs[id] = ch

	var once bool
	return ch, func() {
		bc.subMu.Lock()
		defer bc.subMu.Unlock()
		if once {
			return
		}
		once = true
		delete(bc.subs, id)
		close(ch)
	}
}

// publish never blocks: a subscriber whose buffer is full misses the block.
func (bc *Blockchain) publish(b Block) {
	bc.subMu.Lock()
	defer bc.subMu.Unlock()

	for id, ch := range bc.subs {
		select {
		case ch <- b:
		default:
			bc.logger.Warn("dropping block for slow subscriber", "subscriber", id, "block", b.Index)
		}
	}
}
