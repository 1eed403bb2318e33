package ports

import "github.com/corey/vimmeta/internal/domain/vimscript"

// ModuleCache memoizes parsed modules. Keys identify both the file and its
// content, so a hit is always safe to reuse. Implementations must be safe for
// concurrent use; the assembler calls them from its worker pool.
type ModuleCache interface {
	Get(key string) (vimscript.Module, bool)
	Add(key string, mod vimscript.Module)
}
