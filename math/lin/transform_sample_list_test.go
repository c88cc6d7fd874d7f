package lin

import "testing"

func TestTransformSampleListLerpAtSampleTimes(t *testing.T) {
	l := NewTransformSampleList()
	l.PushTranslate(0, 0, 0, 0)
	l.PushTranslate(10, 0, 0, 1)

	at0 := l.Lerp(0)
	if !Aeq(at0.Translate.X, 0) {
		t.Errorf("Lerp(0).Translate.X = %v, want 0", at0.Translate.X)
	}
	at1 := l.Lerp(1)
	if !Aeq(at1.Translate.X, 10) {
		t.Errorf("Lerp(1).Translate.X = %v, want 10", at1.Translate.X)
	}
}

func TestTransformSampleListLerpIsMonotonic(t *testing.T) {
	l := NewTransformSampleList()
	l.PushTranslate(0, 0, 0, 0)
	l.PushTranslate(10, -5, 2, 1)

	prev := l.Lerp(0).Translate.X
	for i := 1; i <= 10; i++ {
		time := float64(i) / 10
		cur := l.Lerp(time).Translate.X
		if cur < prev {
			t.Fatalf("translate.X not monotonic at t=%v: %v < %v", time, cur, prev)
		}
		prev = cur
	}
}

func TestTransformSampleListClampsOutsideRange(t *testing.T) {
	l := NewTransformSampleList()
	l.PushTranslate(1, 2, 3, 0)
	l.PushTranslate(4, 5, 6, 1)

	before := l.Lerp(-1)
	if !Aeq(before.Translate.X, 1) {
		t.Errorf("Lerp(-1).Translate.X = %v, want clamped to first sample 1", before.Translate.X)
	}
	after := l.Lerp(2)
	if !Aeq(after.Translate.X, 4) {
		t.Errorf("Lerp(2).Translate.X = %v, want clamped to last sample 4", after.Translate.X)
	}
}
