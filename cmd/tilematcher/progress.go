package main

import (
	pb "github.com/cheggaaa/pb/v3"

	"github.com/submersibletoaster/tilematcher/grid"
)

// barObserver shows grid progress as a bar on stderr.
type barObserver struct {
	bar *pb.ProgressBar
}

func (b *barObserver) Progress(row, rows int) {
	if b.bar == nil {
		b.bar = pb.StartNew(rows)
	}
	b.bar.SetCurrent(int64(row))
	if row >= rows {
		b.bar.Finish()
	}
}

func observer() grid.Observer {
	if cfg.ProgressEvery <= 0 {
		return nil
	}
	return &barObserver{}
}
