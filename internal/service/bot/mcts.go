package bot

import (
	"math"
	"math/rand"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

const (
	DefaultMCTSIterations = 2000
	DefaultExploration    = 1.4
)

// mctsNode is one position in the search tree. mover is whoever played the
// move leading here; v accumulates rewards from mover's point of view.
type mctsNode struct {
	board    domain.Board
	move     int
	mover    domain.Mover
	parent   *mctsNode
	children []*mctsNode
	untried  []int
	terminal bool
	winner   domain.Cell
	n        int
	v        float64
}

func newMCTSNode(board domain.Board, move int, mover domain.Mover, parent *mctsNode) *mctsNode {
	node := &mctsNode{
		board:  board,
		move:   move,
		mover:  mover,
		parent: parent,
	}
	if status, winner := board.Status(); status != domain.StatusInProgress {
		node.terminal = true
		node.winner = winner
	} else {
		node.untried = board.ValidMoves()
	}
	return node
}

func (n *mctsNode) isLeaf() bool {
	return len(n.children) == 0
}

// ucb is the UCB1 score; unvisited nodes always come first.
func (n *mctsNode) ucb(c float64) float64 {
	if n.n == 0 {
		return math.Inf(1)
	}
	return n.v/float64(n.n) + c*math.Sqrt(math.Log(float64(n.parent.n))/float64(n.n))
}

// childWithHighestUCB keeps the first child on ties.
func (n *mctsNode) childWithHighestUCB(c float64) *mctsNode {
	var best *mctsNode
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		if score := child.ucb(c); best == nil || score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

func (n *mctsNode) expand() *mctsNode {
	i := rand.Intn(len(n.untried))
	col := n.untried[i]
	n.untried = append(n.untried[:i], n.untried[i+1:]...)

	next := n.mover.Opponent()
	board, _, _ := n.board.SimulateMove(col, next)
	child := newMCTSNode(board, col, next, n)
	n.children = append(n.children, child)
	return child
}

// rollout plays random moves to the end and returns the winner.
func (n *mctsNode) rollout() domain.Cell {
	if n.terminal {
		return n.winner
	}

	board := n.board
	toMove := n.mover.Opponent()
	for {
		moves := board.ValidMoves()
		if len(moves) == 0 {
			return domain.Empty
		}
		col := moves[rand.Intn(len(moves))]
		row, _ := board.DropCoin(col, toMove)
		if board.CheckWin(row, col, toMove) {
			return toMove
		}
		toMove = toMove.Opponent()
	}
}

func (n *mctsNode) backprop(winner domain.Cell) {
	for node := n; node != nil; node = node.parent {
		node.n++
		switch winner {
		case node.mover:
			node.v += 1
		case domain.Empty:
			node.v += 0.5
		}
	}
}

type mcts struct {
	root       *mctsNode
	iterations int
	c          float64
}

func newMCTS(board domain.Board, bot domain.Mover, iterations int) *mcts {
	if iterations <= 0 {
		iterations = DefaultMCTSIterations
	}
	return &mcts{
		root:       newMCTSNode(board, -1, bot.Opponent(), nil),
		iterations: iterations,
		c:          DefaultExploration,
	}
}

func (m *mcts) selectNode() *mctsNode {
	current := m.root
	for len(current.untried) == 0 && !current.isLeaf() {
		current = current.childWithHighestUCB(m.c)
	}
	return current
}

// nextMove returns the most visited root child.
func (m *mcts) nextMove() int {
	for i := 0; i < m.iterations; i++ {
		node := m.selectNode()
		if !node.terminal {
			node = node.expand()
		}
		node.backprop(node.rollout())
	}

	best := -1
	bestVisits := -1
	for _, child := range m.root.children {
		if child.n > bestVisits {
			best = child.move
			bestVisits = child.n
		}
	}
	return best
}

func calculateMCTSMove(board domain.Board, bot domain.Mover, iterations int) int {
	if len(board.ValidMoves()) == 0 {
		return -1
	}
	// an immediate win is never worth sampling for
	if winning := findWinningMoves(&board, bot); len(winning) > 0 {
		return winning[0]
	}
	return newMCTS(board, bot, iterations).nextMove()
}
