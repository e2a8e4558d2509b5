package locselect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.ntppool.org/common/logger"

	"go.ntppool.org/locselect/dataset"
	"go.ntppool.org/locselect/selection"
)

// Configuration errors returned (and logged) by Initialize
var (
	ErrUnsupportedDimension   = errors.New("only 3-d locations are supported")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrUnsupportedFieldType   = errors.New("unsupported field type")
	ErrInvalidRadius          = errors.New("search radius must be a non-negative number")
)

// Selector evaluates a location selection node against data set blocks.
// It is disabled until Initialize accepts a node and after Finalize.
type Selector struct {
	log       *slog.Logger
	metrics   *Metrics
	arrayName string
	locations *selection.Array
	matcher   matcher
}

// New returns a disabled selector. log may be nil to use the default
// logger; metrics may be nil.
func New(log *slog.Logger, metrics *Metrics) *Selector {
	if log == nil {
		log = logger.Setup()
	}
	return &Selector{log: log, metrics: metrics}
}

// Initialize validates node and prepares the matcher for its field type.
// Any previous matcher is released first. On a configuration error the
// error is logged, returned, and the selector stays disabled; a node
// without locations disables the selector without an error.
func (sl *Selector) Initialize(ctx context.Context, node *selection.Node, insidednessArrayName string) error {
	sl.arrayName = insidednessArrayName
	sl.locations = nil
	sl.matcher = nil

	if node == nil || node.SelectionList.Tuples() == 0 {
		sl.log.DebugContext(ctx, "empty selection list, nothing to do")
		return nil
	}

	list := node.SelectionList

	if list.Components != 3 {
		return sl.configError(ctx, "dimension",
			fmt.Errorf("%w: got %d components", ErrUnsupportedDimension, list.Components),
			"components", list.Components)
	}

	if node.ContentType != selection.ContentLocations {
		return sl.configError(ctx, "content_type",
			fmt.Errorf("%w %q", ErrUnsupportedContentType, node.ContentType),
			"contentType", node.ContentType.String())
	}

	radius := node.EpsilonOr(0)
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return sl.configError(ctx, "radius",
			fmt.Errorf("%w, got %v", ErrInvalidRadius, radius),
			"epsilon", radius)
	}

	switch assoc := node.FieldType.Association(); assoc {
	case selection.AssociationPoints:
		sl.matcher = &pointMatcher{locations: list, radius: radius}
	case selection.AssociationCells:
		sl.matcher = &cellMatcher{locations: list, radius: radius}
	default:
		return sl.configError(ctx, "field_type",
			fmt.Errorf("%w %q", ErrUnsupportedFieldType, node.FieldType),
			"fieldType", node.FieldType.String(),
			"association", assoc.String())
	}

	sl.locations = list

	sl.log.DebugContext(ctx, "location selector initialized",
		"association", sl.matcher.association().String(),
		"locations", list.Tuples(),
		"epsilon", radius,
		"arrayName", insidednessArrayName)

	return nil
}

func (sl *Selector) configError(ctx context.Context, reason string, err error, args ...any) error {
	sl.log.ErrorContext(ctx, "location selector disabled",
		append([]any{"err", err, "reason", reason}, args...)...)
	if sl.metrics != nil {
		sl.metrics.TrackConfigurationError(reason)
	}
	return err
}

// Enabled reports whether a matcher is active
func (sl *Selector) Enabled() bool { return sl.matcher != nil }

// ArrayName is the insidedness array name given to Initialize
func (sl *Selector) ArrayName() string { return sl.arrayName }

// Association returns the association the active matcher selects from, or
// AssociationNone when the selector is disabled.
func (sl *Selector) Association() selection.Association {
	if sl.matcher == nil {
		return selection.AssociationNone
	}
	return sl.matcher.association()
}

// ComputeSelectedElementsForBlock fills insidedness for one block and
// reports whether any work was done. It returns false without touching
// insidedness when the selector is disabled, when block is not a data set,
// or when a point selection meets a block without points.
//
// The block identifiers are accepted for the composite pipeline and do not
// influence location matching. block and insidedness must not be nil.
func (sl *Selector) ComputeSelectedElementsForBlock(
	ctx context.Context,
	block dataset.DataObject,
	insidedness *InsidednessArray,
	compositeIndex, amrLevel, amrIndex uint,
) bool {
	if block == nil || insidedness == nil {
		panic("locselect: ComputeSelectedElementsForBlock called with a nil block or insidedness array")
	}

	ds, ok := block.(dataset.DataSet)
	if sl.matcher == nil || !ok {
		return false
	}

	start := time.Now()
	performed, matched := sl.matcher.execute(ds, insidedness.Values)
	duration := time.Since(start)

	var selected int
	if performed {
		selected = insidedness.Selected()
	}

	if sl.metrics != nil {
		sl.metrics.TrackBlock(sl.matcher.association(), performed,
			sl.locations.Tuples(), matched, selected, duration)
	}

	sl.log.DebugContext(ctx, "evaluated block",
		"compositeIndex", compositeIndex,
		"amrLevel", amrLevel,
		"amrIndex", amrIndex,
		"association", sl.matcher.association().String(),
		"performed", performed,
		"matched", matched,
		"selected", selected,
		"duration", duration)

	return performed
}

// Finalize releases the matcher. It is safe to call more than once.
func (sl *Selector) Finalize() {
	sl.matcher = nil
	sl.locations = nil
}
