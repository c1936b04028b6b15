package formats

import (
	"bufio"
	"errors"
	"io"

	"go.uber.org/zap"
)

// maxLineLength bounds a single OBJ or MTL line; exporters rarely exceed a
// few hundred bytes.
const maxLineLength = 1 << 20

// eachLine calls fn with every line of r and its 1-based number. Lines
// longer than maxLineLength are skipped with a diagnostic and reading
// continues after them. A read error ends the walk and is logged.
func eachLine(r io.Reader, log *zap.Logger, fn func(n int, line string)) {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	n := 0
	for {
		piece, more, err := br.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("read stopped early", zap.Int("line", n), zap.Error(err))
			}
			return
		}
		n++

		size := len(piece)
		buf = append(buf[:0], piece...)
		for more {
			piece, more, err = br.ReadLine()
			if err != nil {
				break
			}
			size += len(piece)
			if size <= maxLineLength {
				buf = append(buf, piece...)
			}
		}

		if size > maxLineLength {
			log.Debug("over-long line skipped", zap.Int("line", n), zap.Int("bytes", size))
		} else {
			fn(n, string(buf))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("read stopped early", zap.Int("line", n), zap.Error(err))
			}
			return
		}
	}
}
