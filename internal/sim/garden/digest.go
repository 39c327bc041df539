package garden

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// StateDigest hashes the full simulation state. Two engines that took the
// same seed and the same action stream always produce the same digest;
// the determinism tests and the step log rely on it.
func (e *Engine) StateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, e.episode)
	digestWriteU64(h, &tmp, e.step)
	digestWriteU64(h, &tmp, uint64(e.grid.Width))
	digestWriteU64(h, &tmp, uint64(e.grid.Height))
	digestWriteF64(h, &tmp, e.grid.MinPollution)
	digestWriteF64(h, &tmp, e.grid.MaxPollution)
	digestWriteF64(h, &tmp, e.grid.PollutionIncrement)

	for i := range e.grid.cells {
		c := &e.grid.cells[i]
		h.Write([]byte{byte(c.Type), boolByte(c.Type == CellGround)})
		if c.Type == CellGround {
			digestWriteF64(h, &tmp, c.Pollution)
		}
		if f := c.Flower; f != nil {
			h.Write([]byte{1})
			digestWriteI64(h, &tmp, int64(f.Type))
			digestWriteI64(h, &tmp, int64(f.Owner))
			digestWriteI64(h, &tmp, int64(f.Stage))
		} else {
			h.Write([]byte{0})
		}
		digestWriteI64(h, &tmp, int64(c.AgentID))
	}

	numTypes := e.grid.catalog.NumTypes()
	for _, id := range e.agentOrder {
		a := e.agents[id]
		digestWriteI64(h, &tmp, int64(a.ID))
		digestWriteI64(h, &tmp, int64(a.Pos.Row))
		digestWriteI64(h, &tmp, int64(a.Pos.Col))
		digestWriteF64(h, &tmp, a.Money)
		digestWriteI64(h, &tmp, int64(a.TurnsWithoutIncome))
		for t := 0; t < numTypes; t++ {
			digestWriteI64(h, &tmp, int64(a.Seeds[t]))
			digestWriteI64(h, &tmp, int64(a.FlowersPlanted[t]))
			digestWriteI64(h, &tmp, int64(a.FlowersHarvested[t]))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hash.Hash, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hash.Hash, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
