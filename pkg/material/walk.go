package material

import (
	"errors"
	"fmt"

	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/host"
)

// Closure returns the seeds and every node upstream of them, each exactly
// once, in traversal order.
//
// The walk is stack based: the last pushed id is visited next and the seeds
// are pushed in order, so the last seed is walked first. Ids are resolved to
// node names before the visited check, which lets seeds use full paths.
// Cycles terminate on the visited set.
func Closure(scene host.Scene, seeds []string) ([]string, error) {
	stack := make([]string, len(seeds))
	copy(stack, seeds)

	visited := make(map[string]bool)
	var order []string
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := scene.Node(id)
		if err != nil {
			return nil, nodeError(id, err)
		}
		if visited[info.Name] {
			continue
		}
		visited[info.Name] = true
		order = append(order, info.Name)

		inputs, err := scene.Inputs(info.Name)
		if err != nil {
			return nil, nodeError(info.Name, err)
		}
		for _, c := range inputs {
			if !visited[c.Source.Node] {
				stack = append(stack, c.Source.Node)
			}
		}
	}
	return order, nil
}

func nodeError(id string, err error) error {
	if errors.Is(err, host.ErrNodeNotFound) {
		return m2kerrors.Wrap(m2kerrors.ErrCodeNodeNotFound, err, "node %q", id)
	}
	return fmt.Errorf("node %q: %w", id, err)
}
