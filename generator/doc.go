// Package generator renders template trees into fresh output directories.
//
// # Rendering
//
// A Renderer wraps text/template in strict mode: referencing a missing
// variable or an unknown function fails instead of rendering blanks, and
// nothing is HTML-escaped:
//
//	r, err := generator.NewRenderer(generator.WithHelpers(registry.FuncMap()))
//	out, err := r.RenderString("greeting", "Hi {{ .vars.name }}", data)
//
// RenderTree applies the same rendering to every relative path and file
// under a template root, so a directory named {{ .vars.app.name }} comes
// out as the application's name.
//
// # Transactions
//
// A Transaction makes a generation all-or-nothing:
//
//	tx, err := generator.Begin(out, force) // fails early if out is in use
//	if err != nil {
//	    return err
//	}
//	defer tx.Close() // removes scratch; removes out unless committed
//
//	tx.Track(scratchDir)
//	if err := tx.Create(); err != nil {
//	    return err
//	}
//	if _, err := r.RenderTree(ctx, opts); err != nil {
//	    return err
//	}
//	return tx.Commit()
package generator
