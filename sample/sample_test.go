package sample

import "testing"

func TestTilerCoversWholeRegionExactlyOnce(t *testing.T) {
	tiler := NewTiler(100, 70, 32, 32)
	tiles := tiler.GenerateTiles(Region{X0: 0, Y0: 0, X1: 100, Y1: 70})

	covered := make(map[[2]int]int)
	for _, tile := range tiles {
		for y := tile.Y0; y < tile.Y1; y++ {
			for x := tile.X0; x < tile.X1; x++ {
				covered[[2]int{x, y}]++
			}
		}
	}
	if len(covered) != 100*70 {
		t.Fatalf("covered %d pixels, want %d", len(covered), 100*70)
	}
	for px, n := range covered {
		if n != 1 {
			t.Fatalf("pixel %v covered %d times, want 1", px, n)
		}
	}
}

func TestTilerClipsToSubregion(t *testing.T) {
	tiler := NewTiler(100, 100, 32, 32)
	tiles := tiler.GenerateTiles(Region{X0: 10, Y0: 10, X1: 20, Y1: 20})
	for _, tile := range tiles {
		if tile.X0 < 10 || tile.Y0 < 10 || tile.X1 > 20 || tile.Y1 > 20 {
			t.Errorf("tile %+v escapes requested region", tile)
		}
	}
}

func TestFilterWeightBoxIsConstant(t *testing.T) {
	f := NewFilter(FilterBox, 2, 2)
	if w := f.Weight(0, 0); w != 1 {
		t.Errorf("box weight at center = %v, want 1", w)
	}
	if w := f.Weight(1.9, 1.9); w != 1 {
		t.Errorf("box weight near edge = %v, want 1", w)
	}
}

func TestFilterWeightGaussianPeaksAtCenter(t *testing.T) {
	f := NewFilter(FilterGaussian, 4, 4)
	center := f.Weight(0, 0)
	off := f.Weight(1, 1)
	if !(center > off) {
		t.Errorf("gaussian weight at center (%v) should exceed weight off-center (%v)", center, off)
	}
}

func TestFixedGridSamplerCoverageFormula(t *testing.T) {
	s := NewFixedGridSampler(42)
	s.SetResolution(16, 16)
	s.SetPixelSamples(2, 2)
	s.SetFilterWidth(2, 2)
	s.SetJitter(0)

	region := Region{X0: 0, Y0: 0, X1: 4, Y1: 4}
	s.GenerateSamples(region)

	margin := marginOf(2, 2)
	wantNX := region.Width()*2 + 2*margin
	wantNY := region.Height()*2 + 2*margin

	n := 0
	for s.NextSample() != nil {
		n++
	}
	if n != wantNX*wantNY {
		t.Errorf("sample count = %d, want %d (nx=%d ny=%d)", n, wantNX*wantNY, wantNX, wantNY)
	}
}

func TestFixedGridSamplerSampleSetInPixelNonEmpty(t *testing.T) {
	s := NewFixedGridSampler(1)
	s.SetResolution(8, 8)
	s.SetPixelSamples(4, 4)
	s.SetFilterWidth(2, 2)
	s.GenerateSamples(Region{X0: 0, Y0: 0, X1: 8, Y1: 8})

	set := s.SampleSetInPixel(3, 3)
	if len(set) == 0 {
		t.Fatal("expected a non-empty sample set for an interior pixel")
	}
}
