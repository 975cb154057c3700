package main

import (
	"fmt"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/output"
	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
)

// TreeNode is one service in the JSON dependency tree
type TreeNode struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Cost    int        `json:"cost"`
	Group   string     `json:"group,omitempty"`
	Unlocks []TreeNode `json:"unlocks,omitempty"`
	Missing []int      `json:"missing_dependencies,omitempty"`
}

func newTreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print which services unlock which",
		Long: `Prints the catalog as a tree: every root service with the services it
unlocks underneath. A service with several prerequisites appears under each
of them. Services whose prerequisites are all missing are listed separately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return fail(cmd, opts, err)
			}

			nodes := buildTree(rt.Catalog.Graph)
			if opts.JSON {
				return output.WriteJSONData(cmd.OutOrStdout(), nodes)
			}

			root := gtree.NewRoot("services")
			for _, n := range nodes {
				addTreeNode(root, n, rt.Catalog.Currency)
			}
			if err := gtree.OutputFromRoot(cmd.OutOrStdout(), root); err != nil {
				return fmt.Errorf("failed to print tree: %w", err)
			}
			return nil
		},
	}
}

// buildTree returns the roots with their dependents expanded, followed by
// services that cannot be reached from any root
func buildTree(g *catalog.Graph) []TreeNode {
	var nodes []TreeNode
	for _, id := range g.Roots() {
		nodes = append(nodes, expand(g, id))
	}

	for _, svc := range g.Services() {
		if svc.IsRoot() || hasKnownDependency(g, svc) {
			continue
		}
		node := expand(g, svc.ID)
		node.Missing = append([]int(nil), svc.Dependencies...)
		nodes = append(nodes, node)
	}
	return nodes
}

func expand(g *catalog.Graph, id int) TreeNode {
	svc, _ := g.ByID(id)
	node := TreeNode{ID: svc.ID, Name: svc.Name, Cost: svc.Cost, Group: svc.Group}
	for _, dep := range g.Dependents(id) {
		node.Unlocks = append(node.Unlocks, expand(g, dep))
	}
	return node
}

func hasKnownDependency(g *catalog.Graph, svc catalog.Service) bool {
	for _, dep := range svc.Dependencies {
		if dep >= 0 && dep < g.Len() {
			return true
		}
	}
	return false
}

func addTreeNode(parent *gtree.Node, n TreeNode, currency string) {
	text := fmt.Sprintf("[%d] %s", n.ID, n.Name)
	if n.Cost > 0 {
		text += fmt.Sprintf(" %d%s", n.Cost, currency)
	}
	if n.Group != "" {
		text += fmt.Sprintf(" (one of %s)", n.Group)
	}
	if len(n.Missing) > 0 {
		text += fmt.Sprintf(" (missing prerequisites %v)", n.Missing)
	}

	child := parent.Add(text)
	for _, u := range n.Unlocks {
		addTreeNode(child, u, currency)
	}
}
