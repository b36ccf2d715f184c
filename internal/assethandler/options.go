package assethandler

import (
	"fmt"
	"strings"

	"github.com/keithlinneman/assetserve/internal/assetstore"
	"github.com/keithlinneman/assetserve/internal/log"
	"github.com/keithlinneman/assetserve/internal/xerrors"
)

var ErrInvalidOptions = xerrors.New("assethandler: invalid options")

// DefaultCacheControl is applied to every served asset unless overridden
// or disabled. One week; embedded assets only change with a new binary.
const DefaultCacheControl = "max-age=604800"

type Options struct {
	Logger log.Logger
	// Store holds the embedded assets, immutable for the process lifetime.
	Store assetstore.Store

	// MountPath scopes the handler to a URL prefix. Requests outside it are
	// declined before any decoding or store lookup. Normalized to end with
	// exactly one trailing slash. Default: "/" (whole tree).
	MountPath string

	// DisableFallthrough makes unsupported methods answer 405 instead of
	// declining to the next handler. Missing assets always decline.
	DisableFallthrough bool

	// DisableIndex turns off the <dir>/index.html fallback for
	// directory-shaped request paths.
	DisableIndex bool

	// CacheControl is the static Cache-Control value for served assets.
	// Default: DefaultCacheControl.
	CacheControl string

	// DisableCacheControl omits the Cache-Control header entirely.
	DisableCacheControl bool

	// Observability hooks, all optional. OnServed receives the negotiated
	// content coding ("br", "gzip", or "identity"); OnDeclined receives a
	// coarse reason label safe for metrics cardinality.
	OnServed   func(encoding string)
	OnDeclined func(reason string)
	OnError    func()
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	if o.MountPath == "" {
		o.MountPath = "/"
	}
	if o.CacheControl == "" {
		o.CacheControl = DefaultCacheControl
	}
}

func (o *Options) validate() error {
	if o.Store == nil {
		return fmt.Errorf("%w: Store is nil", ErrInvalidOptions)
	}
	if !strings.HasPrefix(o.MountPath, "/") {
		return fmt.Errorf("%w: MountPath %q must start with /", ErrInvalidOptions, o.MountPath)
	}
	return nil
}

// normalizeMount collapses trailing slashes so the mount ends with exactly one.
func normalizeMount(m string) string {
	return strings.TrimRight(m, "/") + "/"
}
