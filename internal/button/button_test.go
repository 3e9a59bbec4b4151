package button

import "testing"

type fakeInput struct {
	levels map[Button]bool
}

func (f *fakeInput) Pressed(b Button) bool { return f.levels[b] }

func TestEdgeFiresOncePerPress(t *testing.T) {
	in := &fakeInput{levels: map[Button]bool{}}
	e := NewEdge()

	if e.Fired(in, Answer) {
		t.Fatal("fired while released")
	}

	in.levels[Answer] = true
	if !e.Fired(in, Answer) {
		t.Fatal("did not fire on press")
	}
	if e.Fired(in, Answer) {
		t.Fatal("fired again while held")
	}

	in.levels[Answer] = false
	if e.Fired(in, Answer) {
		t.Fatal("fired on release")
	}

	in.levels[Answer] = true
	if !e.Fired(in, Answer) {
		t.Fatal("did not fire on second press")
	}
}

func TestEdgePrime(t *testing.T) {
	in := &fakeInput{levels: map[Button]bool{EndOrReject: true}}
	e := NewEdge()
	e.Prime(in, EndOrReject)

	// Held before the loop started: not a fresh press.
	if e.Fired(in, EndOrReject) {
		t.Fatal("primed edge fired for a held button")
	}

	in.levels[EndOrReject] = false
	e.Fired(in, EndOrReject)
	in.levels[EndOrReject] = true
	if !e.Fired(in, EndOrReject) {
		t.Fatal("did not fire after release and re-press")
	}
}

func TestButtonString(t *testing.T) {
	names := map[Button]string{
		SendSMS:     "SendSMS",
		MakeCall:    "MakeCall",
		JoinMeeting: "JoinMeeting",
		EndOrReject: "EndOrReject",
		Answer:      "Answer",
	}
	for b, want := range names {
		if b.String() != want {
			t.Errorf("%d.String() = %q, want %q", b, b.String(), want)
		}
	}
}
