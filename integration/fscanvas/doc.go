// Package fscanvas shows glyph frames rendered on the CPU inside a gogpu
// window.
//
// A Canvas owns a fontstash.SoftwareRenderer and the frame it draws into.
// RenderTo uploads the frame through the drawer's gpucontext.TextureCreator
// the first time and through gpucontext.TextureUpdater afterwards, so a
// steady-state frame costs one texture upload and one draw:
//
//	c, err := fscanvas.New(800, 600, fontstash.WithBackground(fontstash.White))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    c.Draw(a, transforms, runs, fontstash.DefaultSDFUniforms())
//	    c.RenderTo(dc.AsTextureDrawer())
//	})
//
// Frames produced elsewhere (for example gpu.Renderer.Render) go through a
// Presenter, which keeps the same texture reuse rules.
package fscanvas
