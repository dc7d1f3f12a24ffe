// Package filesystem walks template trees in a stable order.
//
// Walk visits entries depth-first in lexical order, so side effects of
// visiting (rendering a path that calls a helper, for example) happen in
// the same sequence on every run with the same inputs:
//
//	err := filesystem.Walk(ctx, root, filesystem.WalkOptions{
//	    IgnorePatterns: []string{"*.swp"},
//	}, func(path, rel string, d fs.DirEntry) error {
//	    fmt.Println(rel)
//	    return nil
//	})
//
// Version-control directories (.git, .svn, .hg) are skipped by default.
package filesystem
