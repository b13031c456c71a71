package game

import (
	"fmt"
	"math"

	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

// CommandKind identifies a player command delivered by an input adapter.
type CommandKind int

const (
	CmdTap     CommandKind = iota // Fire toward (X,Y), or straight up from X when aimed fire is off
	CmdDrag                       // Move the player by (X,Y)
	CmdDragTo                     // Move the player to (X,Y)
	CmdMoveGun                    // Move the gun horizontally to X
	CmdFireAt                     // Move the gun to X and fire straight up
	CmdAim                        // Point the gun at (X,Y)
	CmdFire                       // Fire along the current gun angle
	CmdReset                      // Restart after game over
)

var commandNames = map[CommandKind]string{
	CmdTap:     "tap",
	CmdDrag:    "drag",
	CmdDragTo:  "dragTo",
	CmdMoveGun: "move",
	CmdFireAt:  "fireAt",
	CmdAim:     "aim",
	CmdFire:    "fire",
	CmdReset:   "reset",
}

// String returns the wire name of the command kind.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// ParseCommandKind maps a wire name back to its kind.
func ParseCommandKind(name string) (CommandKind, error) {
	for kind, n := range commandNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Command is a discrete input for the simulation.
type Command struct {
	Kind CommandKind
	X, Y float64
}

// Tap fires at the tapped point.
func Tap(x, y float64) Command { return Command{Kind: CmdTap, X: x, Y: y} }

// Drag moves the player by a relative offset.
func Drag(dx, dy float64) Command { return Command{Kind: CmdDrag, X: dx, Y: dy} }

// DragTo moves the player to an absolute position.
func DragTo(x, y float64) Command { return Command{Kind: CmdDragTo, X: x, Y: y} }

// MoveGun moves the gun horizontally.
func MoveGun(x float64) Command { return Command{Kind: CmdMoveGun, X: x} }

// FireAt moves the gun to x and fires straight up.
func FireAt(x float64) Command { return Command{Kind: CmdFireAt, X: x} }

// Aim points the gun at (x, y) without firing.
func Aim(x, y float64) Command { return Command{Kind: CmdAim, X: x, Y: y} }

// Fire shoots along the current gun angle.
func Fire() Command { return Command{Kind: CmdFire} }

// Reset restarts the session.
func Reset() Command { return Command{Kind: CmdReset} }

// Apply executes cmd against the world. Positions are clamped to the play
// area rather than rejected. Once the game is over only CmdReset has an
// effect. Returns whether the command changed anything.
func (w *World) Apply(cmd Command) bool {
	if cmd.Kind == CmdReset {
		w.Reset()
		return true
	}
	if w.State.GameOver {
		return false
	}

	switch cmd.Kind {
	case CmdTap:
		if !w.cfg.AimedFire {
			return w.fireAt(cmd.X)
		}
		w.aim(physics.Point{X: cmd.X, Y: cmd.Y})
		return w.fire()
	case CmdDrag:
		w.Player = w.clampPlayer(w.Player.Add(physics.Point{X: cmd.X, Y: cmd.Y}))
		return true
	case CmdDragTo:
		w.Player = w.clampPlayer(physics.Point{X: cmd.X, Y: cmd.Y})
		return true
	case CmdMoveGun:
		w.Player.X = physics.Clamp(cmd.X, 0, w.bounds.Width)
		return true
	case CmdFireAt:
		return w.fireAt(cmd.X)
	case CmdAim:
		w.aim(physics.Point{X: cmd.X, Y: cmd.Y})
		return true
	case CmdFire:
		return w.fire()
	default:
		return false
	}
}

// clampPlayer keeps p inside the play area and PlayerBottomInset above the bottom edge.
func (w *World) clampPlayer(p physics.Point) physics.Point {
	p = w.bounds.Clamp(p)
	p.Y = min(p.Y, max(w.bounds.Height-w.cfg.PlayerBottomInset, 0))
	return p
}

// aim points the gun at target; a target on the player keeps the old angle.
func (w *World) aim(target physics.Point) {
	d := target.Sub(w.Player)
	if d.X == 0 && d.Y == 0 {
		return
	}
	w.GunAngle = math.Atan2(d.Y, d.X)
}

func (w *World) fireAt(x float64) bool {
	w.Player.X = physics.Clamp(x, 0, w.bounds.Width)
	w.GunAngle = object.AngleUp
	return w.fire()
}

// fire spawns a bullet at the gun tip unless the gun is cooling down.
func (w *World) fire() bool {
	if w.fireCooldown > 0 {
		return false
	}
	tip := w.Player.Add(physics.FromAngle(w.GunAngle, w.cfg.GunLength))
	w.Bullets = append(w.Bullets, object.NewBullet(tip, w.GunAngle, w.cfg.BulletSpeed, object.RandomColor(w.rng)))
	w.fireCooldown = w.cfg.FireCooldownTicks
	return true
}
