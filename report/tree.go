package report

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// StateTree renders the busy slots and pending registers of snap as a tree.
// Idle slots are listed by name only.
func StateTree(snap pipeline.Snapshot) string {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("cycle %d", snap.Cycle))

	pools := tree.AddBranch("slots")
	stations := pools.AddBranch(fmt.Sprintf("reservation stations (%d busy)",
		snap.BusyCount(pipeline.UnitAdd)+snap.BusyCount(pipeline.UnitMul)))
	for _, rs := range append(append([]pipeline.ReservationStation(nil), snap.AddStations...), snap.MulStations...) {
		if !rs.Busy {
			stations.AddNode(rs.Name.String())
			continue
		}
		node := stations.AddBranch(fmt.Sprintf("%v: %v", rs.Name, snap.Records[rs.InstIdx].Inst))
		node.AddNode(fmt.Sprintf("j=%v", rs.J))
		node.AddNode(fmt.Sprintf("k=%v", rs.K))
		node.AddNode(fmt.Sprintf("remaining=%d", rs.Remaining))
	}

	loads := pools.AddBranch(fmt.Sprintf("load buffers (%d busy)", snap.BusyCount(pipeline.UnitLoad)))
	for _, lb := range snap.LoadBuffers {
		if !lb.Busy {
			loads.AddNode(lb.Name.String())
			continue
		}
		node := loads.AddBranch(fmt.Sprintf("%v: %v", lb.Name, snap.Records[lb.InstIdx].Inst))
		node.AddNode(fmt.Sprintf("remaining=%d", lb.Remaining))
	}

	stores := pools.AddBranch(fmt.Sprintf("store buffers (%d busy)", snap.BusyCount(pipeline.UnitStore)))
	for _, sb := range snap.StoreBuffers {
		if !sb.Busy {
			stores.AddNode(sb.Name.String())
			continue
		}
		node := stores.AddBranch(fmt.Sprintf("%v: %v", sb.Name, snap.Records[sb.InstIdx].Inst))
		node.AddNode(fmt.Sprintf("data=%v", sb.Data))
		node.AddNode(fmt.Sprintf("remaining=%d", sb.Remaining))
	}

	pending := tree.AddBranch("pending registers")
	for i, tag := range snap.RegStatus {
		if tag.Valid() {
			pending.AddNode(fmt.Sprintf("%v <- %v", insts.FReg(i), tag))
		}
	}

	return tree.String()
}
