package chain

import (
	"sync"
	"testing"

	"lockladder/pkg/levels"
)

func TestPermitConsumeOnce(t *testing.T) {
	p := newPermit(levels.Level(3), levels.Write)

	if p.stale() {
		t.Error("fresh permit reported stale")
	}
	if !p.consume() {
		t.Error("first consume must win")
	}
	if p.consume() {
		t.Error("second consume must lose")
	}
	if !p.stale() {
		t.Error("consumed permit not reported stale")
	}
}

func TestPermitConsumeRace(t *testing.T) {
	p := newPermit(levels.Level(3), levels.Write)

	const contenders = 16
	var wg sync.WaitGroup
	wins := make(chan bool, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- p.consume()
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winning consume, got %d", winners)
	}
}
