// Command slosbench benchmarks the SLOS amplitude-propagation recurrence:
// it builds the fock.Array/fock.LayerMap chain from the vacuum up to n
// photons in m modes, propagates the input state |1,1,...,1,0,...,0>
// (one photon per mode, for modes 0..n-1) through a unitary (synthesized
// via randunitary.Haar, or loaded from disk), and reports the output
// distribution and per-layer timing.
package main

import (
	"encoding/json"
	"math/cmplx"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/lumenphoton/slos/fock"
	"github.com/lumenphoton/slos/permanent"
	"github.com/lumenphoton/slos/randunitary"
)

func main() {
	var (
		m           = pflag.IntP("modes", "m", 4, "number of modes")
		n           = pflag.IntP("photons", "n", 4, "number of photons (injected one per mode, modes 0..n-1)")
		kind        = pflag.StringP("kind", "k", "ryser", "permanent kind for the cross-check (glynn or ryser)")
		threads     = pflag.IntP("threads", "t", 0, "worker count for ryser (0 = GOMAXPROCS)")
		unitaryFile = pflag.String("unitary-file", "", "path to a JSON-encoded row-major unitary [[re,im],...]; synthesized via randunitary.Haar if empty")
		seed        = pflag.Int64("seed", 1, "RNG seed for the synthesized unitary")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	logger.SetLevel(log.InfoLevel)

	if err := run(logger, *m, *n, *kind, *threads, *unitaryFile, *seed); err != nil {
		logger.Fatal(err)
	}
}

func run(logger *log.Logger, m, n int, kind string, threads int, unitaryFile string, seed int64) error {
	if m <= 0 || n < 0 || n > m {
		return errors.Errorf("invalid shape: m=%d n=%d (require 0 <= n <= m)", m, n)
	}

	u, err := loadOrSynthesizeUnitary(m, unitaryFile, seed)
	if err != nil {
		return err
	}

	logger.Info("built unitary", "modes", m)

	parent := fock.NewArray(m, 0)
	parent.Generate()
	coefs := []complex128{1}

	for k := 1; k <= n; k++ {
		start := time.Now()

		child := fock.NewArray(m, k)
		child.Generate()

		lm, err := fock.NewLayerMap(child, parent)
		if err != nil {
			return errors.Wrapf(err, "building layer map for n=%d", k)
		}
		lm.Generate()

		next := make([]complex128, child.Count())
		// The k-th injected photon enters mode k-1, giving the input
		// state |1,1,...,1,0,...,0> over modes 0..n-1.
		lm.ComputeSLOSLayer(u, k-1, next, coefs)

		logger.Info("propagated layer",
			"n", k,
			"states", child.Count(),
			"elapsed", time.Since(start))

		parent = child
		coefs = next
	}

	reportDistribution(logger, parent, coefs)

	if n >= 1 {
		if err := checkAgainstPermanent(logger, parent, coefs, u, m, n, kind, threads); err != nil {
			logger.Warn("permanent cross-check skipped", "err", err)
		}
	}
	return nil
}

func loadOrSynthesizeUnitary(m int, path string, seed int64) ([]complex128, error) {
	if path == "" {
		rng := rand.New(rand.NewSource(seed))
		mat, err := randunitary.Haar(m, rng)
		if err != nil {
			return nil, errors.Wrap(err, "synthesizing unitary")
		}
		return randunitary.ToRowMajor(mat), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening unitary file %q", path)
	}
	defer f.Close()

	var entries [][2]float64
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, errors.Wrapf(err, "decoding unitary file %q", path)
	}
	if len(entries) != m*m {
		return nil, errors.Errorf("unitary file %q has %d entries, want %d", path, len(entries), m*m)
	}
	u := make([]complex128, len(entries))
	for i, e := range entries {
		u[i] = complex(e[0], e[1])
	}
	return u, nil
}

func reportDistribution(logger *log.Logger, a *fock.Array, coefs []complex128) {
	for idx, fs := range a.All {
		p := cmplx.Abs(coefs[idx])
		p *= p
		// Raw SLOS coefficients omit the √(∏n_k!) output normalization;
		// the input has one photon per mode, so its factor is 1.
		p *= float64(fs.ProdNFact())
		if p < 1e-9 {
			continue
		}
		logger.Info("output amplitude", "state", fs.String(), "prob", p)
	}
}

// checkAgainstPermanent spot-checks the SLOS-computed amplitude of the
// unscattered output state |1,1,...,1,0,...,0> against the permanent of
// the top-left n x n submatrix of u: with exactly one photon per mode on
// both sides, every occupation-count factorial is 1, so the two routes
// to the same amplitude should agree without further normalization.
func checkAgainstPermanent(logger *log.Logger, a *fock.Array, coefs []complex128, u []complex128, m, n int, kind string, threads int) error {
	occ := make([]int, m)
	for i := 0; i < n; i++ {
		occ[i] = 1
	}
	target := fock.FromOccupations(occ)

	idx, err := a.FindIndex(target)
	if err != nil {
		return err
	}
	if idx == fock.Npos {
		return errors.New("unscattered output state not found in layer")
	}

	sub := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		copy(sub[i*n:i*n+n], u[i*m:i*m+n])
	}
	perm, err := permanent.Permanent(sub, n, threads, kind)
	if err != nil {
		return err
	}

	got := coefs[idx]
	logger.Info("permanent cross-check",
		"slos", got,
		"permanent", perm,
		"delta", cmplx.Abs(got-perm))
	return nil
}
