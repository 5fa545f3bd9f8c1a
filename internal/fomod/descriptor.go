// Package fomod implements the conditional installer wizard: parsing a
// mod's declarative ModuleConfig.xml descriptor, tracking user
// selections across flag-gated pages, and materializing the chosen file
// set into the mod's wizard output subtree.
package fomod

import (
	"fmt"
	"strings"

	"omm/internal/domain"

	"github.com/beevik/etree"
)

// Arity is a page's selection constraint.
type Arity int

const (
	SelectAny Arity = iota
	SelectExactlyOne
	SelectAtMostOne
	SelectAtLeastOne
	SelectAll
)

// ParseArity maps a descriptor group type to an Arity. Unknown types
// fall back to free selection.
func ParseArity(s string) Arity {
	switch s {
	case "SelectExactlyOne":
		return SelectExactlyOne
	case "SelectAtMostOne":
		return SelectAtMostOne
	case "SelectAtLeastOne":
		return SelectAtLeastOne
	case "SelectAll":
		return SelectAll
	default:
		return SelectAny
	}
}

// Flag is one named boolean effect or expectation.
type Flag struct {
	Name  string
	Value bool
}

// Dependency is a boolean expression over flags. Operator is "and",
// "or", or empty (treated as "or").
type Dependency struct {
	Operator string
	Flags    []Flag
}

// Node is one file-tree node contributed by a selection or pattern. The
// paths are descriptor-relative; Destination defaults to the last
// segment of Source when the author omitted it.
type Node struct {
	Source      string
	Destination string
}

// Selection is a wizard-configurable option local to a Page.
type Selection struct {
	Name        string
	Description string
	Flags       []Flag // Effects active only while selected
	Selected    bool
	Conditional bool // Carries flag effects; files gated by own flags at resolve time
	Files       []Node
}

// Page is a group of related configurable options.
type Page struct {
	Name       string
	StepName   string
	Arity      Arity
	Selections []*Selection
	Dependency Dependency
}

// Pattern is a descriptor-level conditional file list, independent of
// any page.
type Pattern struct {
	Dependency Dependency
	Files      []Node
}

// Descriptor is the parsed installer description.
type Descriptor struct {
	ModuleName string
	Pages      []*Page
	Required   []Node
	Patterns   []Pattern
}

// Parse reads and validates an installer descriptor. Malformed XML or a
// missing module name reports domain.ErrMalformedDescriptor.
func Parse(path string) (*Descriptor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDescriptor, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrMalformedDescriptor)
	}

	name := root.FindElement("moduleName")
	if name == nil {
		return nil, fmt.Errorf("%w: missing moduleName", domain.ErrMalformedDescriptor)
	}

	desc := &Descriptor{ModuleName: strings.TrimSpace(name.Text())}
	desc.Pages = parsePages(root)
	desc.Required = parseRequired(root)
	desc.Patterns = parsePatterns(root)
	return desc, nil
}

// parsePages flattens install steps into pages: one page per option
// group, with the owning step's visibility dependency attached to each
// of its groups.
func parsePages(root *etree.Element) []*Page {
	var pages []*Page
	steps := root.FindElement("installSteps")
	if steps == nil {
		return nil
	}
	for _, step := range steps.ChildElements() {
		stepName := step.SelectAttrValue("name", "")
		dependency := parseDependency(findChild(step, "visible"))

		for _, groups := range step.ChildElements() {
			if groups.Tag != "optionalFileGroups" {
				continue
			}
			for _, group := range groups.ChildElements() {
				plugins := group.FindElement("plugins")
				if plugins == nil {
					// No configurable options in this group.
					continue
				}
				page := &Page{
					Name:       group.SelectAttrValue("name", ""),
					StepName:   stepName,
					Arity:      ParseArity(group.SelectAttrValue("type", "")),
					Dependency: dependency,
				}
				for i, plugin := range plugins.ChildElements() {
					page.Selections = append(page.Selections, parseSelection(plugin, page.Arity, i))
				}
				pages = append(pages, page)
			}
		}
	}
	return pages
}

func parseSelection(plugin *etree.Element, arity Arity, index int) *Selection {
	sel := &Selection{
		Name: strings.TrimSpace(plugin.SelectAttrValue("name", "")),
		// When a selection is required, the first option starts selected.
		Selected: (arity == SelectExactlyOne || arity == SelectAtLeastOne) && index == 0,
	}
	if d := plugin.FindElement("description"); d != nil {
		sel.Description = strings.TrimSpace(d.Text())
	}
	if cf := plugin.FindElement("conditionFlags"); cf != nil {
		for _, f := range cf.ChildElements() {
			if name := f.SelectAttrValue("name", ""); name != "" {
				sel.Flags = append(sel.Flags, Flag{Name: name, Value: truthy(f.Text())})
			}
		}
		sel.Conditional = true
	}
	if files := plugin.FindElement("files"); files != nil {
		sel.Files = parseNodes(files)
	}
	return sel
}

func parseRequired(root *etree.Element) []Node {
	required := root.FindElement("requiredInstallFiles")
	if required == nil {
		return nil
	}
	var nodes []Node
	for _, child := range required.ChildElements() {
		if child.Tag == "files" {
			nodes = append(nodes, parseNodes(child)...)
			continue
		}
		if node, ok := parseNode(child); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func parsePatterns(root *etree.Element) []Pattern {
	conditional := root.FindElement("conditionalFileInstalls")
	if conditional == nil {
		return nil
	}
	container := conditional.FindElement("patterns")
	if container == nil {
		return nil
	}
	var patterns []Pattern
	for _, p := range container.ChildElements() {
		files := p.FindElement("files")
		if files == nil {
			// No files to install; nothing to gate.
			continue
		}
		patterns = append(patterns, Pattern{
			Dependency: parseDependency(p),
			Files:      parseNodes(files),
		})
	}
	return patterns
}

// parseDependency reads the dependencies element below parent, if any.
func parseDependency(parent *etree.Element) Dependency {
	var dep Dependency
	if parent == nil {
		return dep
	}
	deps := parent.FindElement("dependencies")
	if deps == nil {
		return dep
	}
	dep.Operator = strings.ToLower(deps.SelectAttrValue("operator", ""))
	for _, f := range deps.ChildElements() {
		if name := f.SelectAttrValue("flag", ""); name != "" {
			dep.Flags = append(dep.Flags, Flag{Name: name, Value: truthy(f.SelectAttrValue("value", ""))})
		}
	}
	return dep
}

func parseNodes(files *etree.Element) []Node {
	var nodes []Node
	for _, child := range files.ChildElements() {
		if node, ok := parseNode(child); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func parseNode(el *etree.Element) (Node, bool) {
	src := el.SelectAttrValue("source", "")
	if src == "" {
		return Node{}, false
	}
	dest := el.SelectAttrValue("destination", "")
	if dest == "" {
		// Without an explicit destination the file lands at the top
		// level under its own name.
		dest = src
		if segments := splitDescriptorPath(src); len(segments) > 0 {
			dest = segments[len(segments)-1]
		}
	}
	return Node{Source: src, Destination: dest}, true
}

func findChild(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return nil
	}
	return parent.FindElement(tag)
}

// truthy interprets the loose flag values descriptor authors use.
// Most commonly "On", "1" or "active".
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1", "active":
		return true
	default:
		return false
	}
}
