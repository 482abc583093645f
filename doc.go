// Package thicket is the transform and batching core of a 2D renderer for
// [Ebitengine].
//
// Thicket turns a changing set of transformable primitives (rectangles,
// circles, triangles, polygons, lines and textured sprites) into as few draw
// submissions as the hardware limits allow, while keeping every object's
// world transform correct and cheap to recompute from frame to frame.
//
// # Quick start
//
//	renderer := thicket.NewEbitenRenderer()
//	sched, err := thicket.NewBatchScheduler(renderer, thicket.DefaultConfig())
//	if err != nil { ... }
//	cam := thicket.NewCamera2D(640, 480)
//	sched.SetCamera(cam)
//
//	box := thicket.NewRectangle(32, 32)
//	box.SetColor(thicket.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//
//	// In Game.Draw:
//	renderer.SetTarget(screen)
//	sched.BeginFrame()
//	sched.Submit(box)
//	sched.EndFrame()
//
// # Transforms
//
// Every shape owns a [TransformNode], or shares one through
// [Shape.SetTransform]. Nodes form a hierarchy by pointing at their parent;
// a parent never tracks its children. Instead every node carries a change id
// that increases whenever its world placement may have changed. A child
// compares its parent's change id against the one it saw last and rebuilds
// its world matrix only when they differ, so reading a world matrix costs a
// walk up the ancestors and nothing more when nothing moved.
//
// Disposing a parent is safe: its children notice on their next read and
// become roots.
//
// # Coordinates
//
// World space and normalized device coordinates are Y-up. Window pixels are
// Y-down with the origin at the top-left. [Camera2D] converts between the
// three; its view-projection matrix maps the world rectangle of the camera's
// size, centered on its position, onto [-1, 1] NDC.
//
// # Batching
//
// A [RenderBatch] holds a fixed number of vertices, indices and texture
// slots. [RenderBatch.TryAdd] either takes a whole primitive or leaves the
// batch untouched. [BatchScheduler] drives one dynamic batch per frame,
// drawing and clearing it whenever the next primitive does not fit, plus a
// static pool that keeps its content across frames and is drawn first.
//
// Batches only talk to a [Renderer]. [EbitenRenderer] draws with
// DrawTriangles32; [RecordingRenderer] records calls for tests and headless
// use.
//
// # Atlases and tweens
//
// [LoadAtlas] reads TexturePacker JSON; [Atlas.NewSprite] and [Atlas.Apply]
// point sprites at named frames. [TweenPosition], [TweenScale],
// [TweenRotation] and [TweenColor] animate through the normal setters.
//
// # Configuration
//
// [Config] carries capacities and switches and can be loaded from YAML or
// TOML with [LoadConfig]. [WatchConfig] reloads the file when it changes;
// apply the result between frames with [BatchScheduler.ApplyConfig].
//
// # ECS integration
//
// The thicket/ecs module adapts thicket to [Donburi]: a Drawable component,
// a system that submits every drawable entity and flush events published to
// the ECS world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package thicket
