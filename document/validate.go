package document

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gogpu/matgraph/graph"
)

var validate = validator.New()

// Error is a document field or reference that cannot be used.
type Error struct {
	// Field is the validator namespace, e.g. "Document.Nodes[2].Type".
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("document: %s: %s", e.Field, e.Message)
}

// Validate checks the document structure and its references to the
// node catalog. Every problem found is reported; the returned error joins
// them and each one is an *Error.
//
// Cycles are not detected here. Build rejects them when it connects the
// graph.
func Validate(doc *Document) error {
	if doc == nil {
		return &Error{Field: "Document", Message: "nil document"}
	}
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &Error{Field: "Document", Message: err.Error()}
		}
		errs := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			msg := fmt.Sprintf("failed %q validation", fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
			}
			errs = append(errs, &Error{Field: fe.Namespace(), Message: msg})
		}
		return errors.Join(errs...)
	}

	var errs []error
	seen := make(map[uint32]bool, len(doc.Nodes))
	specs := make(map[uint32]graph.NodeSpec, len(doc.Nodes))
	for i, n := range doc.Nodes {
		field := fmt.Sprintf("Document.Nodes[%d]", i)
		if seen[n.ID] {
			errs = append(errs, &Error{Field: field + ".ID", Message: fmt.Sprintf("duplicate node id %d", n.ID)})
			continue
		}
		seen[n.ID] = true
		spec, err := n.spec()
		if err != nil {
			errs = append(errs, &Error{Field: field, Message: err.Error()})
			continue
		}
		specs[n.ID] = spec
	}

	fed := make(map[Endpoint]bool, len(doc.Connections))
	for i, c := range doc.Connections {
		field := fmt.Sprintf("Document.Connections[%d]", i)
		if err := checkEndpoint(specs, seen, c.From, graph.Output); err != "" {
			errs = append(errs, &Error{Field: field + ".From", Message: err})
			continue
		}
		if err := checkEndpoint(specs, seen, c.To, graph.Input); err != "" {
			errs = append(errs, &Error{Field: field + ".To", Message: err})
			continue
		}
		if c.From.Node == c.To.Node {
			errs = append(errs, &Error{Field: field, Message: fmt.Sprintf("node %d feeds itself", c.From.Node)})
			continue
		}
		if fed[c.To] {
			errs = append(errs, &Error{Field: field + ".To", Message: fmt.Sprintf("input %q of node %d has more than one source", c.To.Pin, c.To.Node)})
			continue
		}
		fed[c.To] = true
	}
	return errors.Join(errs...)
}

// checkEndpoint returns a message when e does not name a pin of the
// given kind. Nodes that failed to build are skipped; they are already
// reported.
func checkEndpoint(specs map[uint32]graph.NodeSpec, seen map[uint32]bool, e Endpoint, kind graph.PinKind) string {
	spec, ok := specs[e.Node]
	if !ok {
		if seen[e.Node] {
			return ""
		}
		return fmt.Sprintf("unknown node %d", e.Node)
	}
	pins := spec.Inputs
	if kind == graph.Output {
		pins = spec.Outputs
	}
	if pinIndex(pins, e.Pin) < 0 {
		return fmt.Sprintf("node %d (%s) has no %s pin %q", e.Node, spec.Type, kind, e.Pin)
	}
	return ""
}
