package atcmd

import (
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

type response struct {
	ok  bool
	out string
}

// fakeComms records written lines and answers each ExpectResponse call
// from a queue, or from respond when set.
type fakeComms struct {
	written   []string
	responses []response
	respond   func(last string) response
	timedOut  bool
	writeErr  error
	expects   int
}

func (f *fakeComms) WriteLine(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, text)
	return nil
}

func (f *fakeComms) ExpectResponse(_, _ string, _ ...transport.ExpectOption) (bool, string) {
	f.expects++
	if f.respond != nil {
		var last string
		if len(f.written) > 0 {
			last = f.written[len(f.written)-1]
		}
		r := f.respond(last)
		return r.ok, r.out
	}
	if len(f.responses) == 0 {
		return false, ""
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.ok, r.out
}

func (f *fakeComms) TimedOut() bool { return f.timedOut }

func okWith(out string) *fakeComms {
	return &fakeComms{responses: []response{{ok: true, out: out}}}
}
