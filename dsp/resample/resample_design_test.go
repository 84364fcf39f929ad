package resample

import (
	"math"
	"testing"
)

func TestDesignBranchesUnityGain(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		phases, nTaps, err := designPolyphaseFIR(3, 2, newConfig([]Option{WithQuality(q)}))
		if err != nil {
			t.Fatalf("%s: designPolyphaseFIR() error = %v", q, err)
		}

		if nTaps != 3*qualityProfile(q).tapsPerPhase+1 {
			t.Fatalf("%s: nTaps = %d", q, nTaps)
		}

		for p, branch := range phases {
			var sum float64
			for _, c := range branch {
				sum += c
			}

			if math.Abs(sum-1) > 0.05 {
				t.Fatalf("%s: branch %d DC gain = %f", q, p, sum)
			}
		}
	}
}

func TestQualityModes_PassbandAndStopband(t *testing.T) {
	tests := []struct {
		quality       Quality
		maxPassbandDB float64
		minStopbandDB float64
	}{
		{quality: QualityFast, maxPassbandDB: 0.7, minStopbandDB: 20},
		{quality: QualityBalanced, maxPassbandDB: 0.35, minStopbandDB: 35},
		{quality: QualityBest, maxPassbandDB: 0.2, minStopbandDB: 50},
	}

	for _, tc := range tests {
		inPass := sine(2000, 48000, 32768)
		inStop := sine(17000, 48000, 32768)

		outPass, err := Resample(inPass, 1, 2, WithQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: Resample passband error = %v", tc.quality, err)
		}

		outStop, err := Resample(inStop, 1, 2, WithQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: Resample stopband error = %v", tc.quality, err)
		}

		passbandDB := math.Abs(dbRatio(rms(outPass[2048:14336]), rms(inPass[4096:28672])))
		if passbandDB > tc.maxPassbandDB {
			t.Fatalf("%s: passband droop %.2f dB > %.2f dB", tc.quality, passbandDB, tc.maxPassbandDB)
		}

		stopAttenDB := -dbRatio(rms(outStop[2048:14336]), rms(inStop[4096:28672]))
		if stopAttenDB < tc.minStopbandDB {
			t.Fatalf("%s: stopband attenuation %.2f dB < %.2f dB", tc.quality, stopAttenDB, tc.minStopbandDB)
		}
	}
}
