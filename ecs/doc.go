// Package ecs bridges a spritefield Controller into a [Donburi] world.
//
// [Bridge] subscribes to the controller and publishes every state snapshot
// to [StateChangedType]. Subscribe to it in your ECS systems and call
// ProcessEvents once per tick to receive them.
//
// Usage:
//
//	world := donburi.NewWorld()
//	unbind := ecs.Bridge(world, ctrl)
//	defer unbind()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
