package wagon

import (
	"io"
)

// progressFunc receives the cumulative byte count of a transfer.
type progressFunc func(transferred int64)

// progressWriter reports every chunk written through it.
type progressWriter struct {
	w        io.Writer
	written  int64
	progress progressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		p.written += int64(n)
		p.progress(p.written)
	}
	return n, err
}

// progressReader reports every chunk read through it.
type progressReader struct {
	r        io.Reader
	read     int64
	progress progressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.progress(p.read)
	}
	return n, err
}

// progressReadSeeker keeps the source seekable so clients that rewind the
// body for signing or retries can do so. The count follows the offset.
type progressReadSeeker struct {
	progressReader
	s io.Seeker
}

func (p *progressReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.s.Seek(offset, whence)
	if err == nil {
		p.read = pos
	}
	return pos, err
}

// newProgressReader wraps r, preserving io.Seeker when r implements it.
func newProgressReader(r io.Reader, fn progressFunc) io.Reader {
	pr := progressReader{r: r, progress: fn}
	if s, ok := r.(io.Seeker); ok {
		return &progressReadSeeker{progressReader: pr, s: s}
	}
	return &pr
}
