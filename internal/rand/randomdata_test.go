package rand

import "testing"

func TestLetterString(t *testing.T) {
	name := LetterString(20)
	if len(name) != 20 {
		t.Fatalf("expected 20 characters, got %d", len(name))
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			t.Fatalf("unexpected character %q in %q", r, name)
		}
	}
}

func benchmarkBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = Bytes(size)
	}
}

func BenchmarkBytes20(b *testing.B)   { benchmarkBytes(b, 20) }
func BenchmarkBytes500(b *testing.B)  { benchmarkBytes(b, 500) }
func BenchmarkBytes1000(b *testing.B) { benchmarkBytes(b, 1000) }

func benchmarkLetterBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = LetterBytes(size)
	}
}

func BenchmarkLetterBytes20(b *testing.B)   { benchmarkLetterBytes(b, 20) }
func BenchmarkLetterBytes500(b *testing.B)  { benchmarkLetterBytes(b, 500) }
func BenchmarkLetterBytes1000(b *testing.B) { benchmarkLetterBytes(b, 1000) }
