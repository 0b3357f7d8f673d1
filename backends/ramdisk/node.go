package ramdisk

// node is a single entry of the in-memory tree: either a folder holding
// uniquely-named children, or a file holding a byte buffer. The parent
// pointer is a non-owning back-reference; the tree rooted at the disk owns
// node lifetime.
type node struct {
	name     string
	dir      bool
	parent   *node
	children []*node
	content  []byte
}

func newFolder(name string) *node {
	return &node{name: name, dir: true}
}

func newFile(name string) *node {
	return &node{name: name, content: []byte{}}
}

// child returns the child with the given name, or nil. Sibling names are
// unique, so a linear scan is enough; trees are process-local and shallow.
func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *node) addChild(c *node) {
	c.parent = n
	n.children = append(n.children, c)
}

// removeChild detaches c from n, taking the whole subtree under c with it.
func (n *node) removeChild(c *node) {
	for i, cand := range n.children {
		if cand == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}
