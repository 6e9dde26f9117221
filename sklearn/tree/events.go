package tree

import "fmt"

// Direction は Descend で入る子の向き
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Event は構築ログの1件。具体型は SplitTried, SplitAccepted, Descend, Ascend のみ
type Event interface {
	fmt.Stringer
	isEvent()
}

// SplitTried は評価したが暫定最良を下回らなかった候補
type SplitTried struct {
	Node      int
	Feature   int
	Threshold float64
	Loss      float64
}

// SplitAccepted はその時点でノードの最良分割になった候補
type SplitAccepted struct {
	Node      int
	Feature   int
	Threshold float64
	Loss      float64
}

// Descend は分割ノードの子に入ったことを表す
type Descend struct {
	Direction Direction
	Feature   int
	Threshold float64
}

// Ascend はノード（葉・内部とも）の構築が終わったことを表す
type Ascend struct {
	Node int
}

func (SplitTried) isEvent()    {}
func (SplitAccepted) isEvent() {}
func (Descend) isEvent()       {}
func (Ascend) isEvent()        {}

func (e SplitTried) String() string {
	return fmt.Sprintf("try_split node=%d feature=%d threshold=%g loss=%g", e.Node, e.Feature, e.Threshold, e.Loss)
}

func (e SplitAccepted) String() string {
	return fmt.Sprintf("best_split node=%d feature=%d threshold=%g loss=%g", e.Node, e.Feature, e.Threshold, e.Loss)
}

func (e Descend) String() string {
	return fmt.Sprintf("down %s feature=%d threshold=%g", e.Direction, e.Feature, e.Threshold)
}

func (e Ascend) String() string {
	return fmt.Sprintf("up node=%d", e.Node)
}
