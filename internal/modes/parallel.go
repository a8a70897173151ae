package modes

import (
	"github.com/wcrypt/wcrypt/internal/words"

	"golang.org/x/sync/errgroup"
)

// minBlocksPerWorker keeps tiny inputs on the sequential path.
const minBlocksPerWorker = 64

// EncryptParallel is like Encrypt but spreads ECB and CTR over up to
// "workers" goroutines. The output is identical to Encrypt. CBC, CFB and OFB
// encryption are inherently sequential and fall back to Encrypt.
func EncryptParallel(m Mode, b Block, iv []uint32, data []uint32, workers int) ([]uint32, error) {
	if m != ECB && m != CTR {
		return Encrypt(m, b, iv, data)
	}
	return fanOut(m, b, iv, data, workers, Encrypt)
}

// DecryptParallel is like Decrypt but spreads ECB, CTR, CBC and CFB over up
// to "workers" goroutines. In CBC and CFB each plaintext block only depends
// on its own and the preceding ciphertext block, so the ciphertext block in
// front of every range is saved before any worker starts. OFB falls back to
// Decrypt.
func DecryptParallel(m Mode, b Block, iv []uint32, data []uint32, workers int) ([]uint32, error) {
	if m == OFB {
		return Decrypt(m, b, iv, data)
	}
	return fanOut(m, b, iv, data, workers, Decrypt)
}

type seqFunc func(m Mode, b Block, iv []uint32, data []uint32) ([]uint32, error)

func fanOut(m Mode, b Block, iv []uint32, data []uint32, workers int, seq seqFunc) ([]uint32, error) {
	bs, err := check(m, b, iv, data)
	if err != nil {
		return nil, err
	}
	nBlocks := len(data) / bs
	if workers > nBlocks/minBlocksPerWorker {
		workers = nBlocks / minBlocksPerWorker
	}
	if workers <= 1 {
		return seq(m, b, iv, data)
	}
	perWorker := (nBlocks + workers - 1) / workers

	// Compute the starting chain state of every range up front. For CBC and
	// CFB this reads ciphertext that the previous range will overwrite.
	type job struct {
		iv   []uint32
		data []uint32
	}
	var jobs []job
	for start := 0; start < nBlocks; start += perWorker {
		end := start + perWorker
		if end > nBlocks {
			end = nBlocks
		}
		j := job{data: data[start*bs : end*bs]}
		switch m {
		case CTR:
			j.iv = words.Clone(iv[:bs])
			incCounter(j.iv, uint32(start))
		case CBC, CFB:
			if start == 0 {
				j.iv = words.Clone(iv[:bs])
			} else {
				j.iv = words.Clone(data[(start-1)*bs : start*bs])
			}
		}
		jobs = append(jobs, j)
	}
	var chain []uint32
	switch m {
	case CTR:
		chain = words.Clone(iv[:bs])
		incCounter(chain, uint32(nBlocks))
	case CBC, CFB:
		if nBlocks == 0 {
			chain = words.Clone(iv[:bs])
		} else {
			chain = words.Clone(data[len(data)-bs:])
		}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			_, err := seq(m, b, j.iv, j.data)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chain, nil
}
