package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Pose2D is a planar pose; Rotation is counter-clockwise in radians.
type Pose2D struct {
	Position mgl32.Vec2
	Rotation float32
	Scale    mgl32.Vec2
}

func IdentityPose2D() Pose2D {
	return Pose2D{Scale: mgl32.Vec2{1, 1}}
}

// Matrix returns T * R * S in homogeneous 2D coordinates.
func (p Pose2D) Matrix() mgl32.Mat3 {
	translate := mgl32.Translate2D(p.Position.X(), p.Position.Y())
	rotate := mgl32.HomogRotate2D(p.Rotation)
	scale := mgl32.Scale2D(p.Scale.X(), p.Scale.Y())

	return translate.Mul3(rotate).Mul3(scale)
}

type Transform2DTree struct {
	transformTree[Pose2D, mgl32.Mat3]
}

func NewTransform2DTree() *Transform2DTree {
	return &Transform2DTree{
		transformTree: newTransformTree(
			Pose2D.Matrix,
			func(parent, local mgl32.Mat3) mgl32.Mat3 { return parent.Mul3(local) },
			mgl32.Ident3(),
		),
	}
}

func (t *Transform2DTree) SetLocalPosition(h NodeHandle, position mgl32.Vec2) error {
	return t.mutateLocal(h, func(p *Pose2D) { p.Position = position })
}

func (t *Transform2DTree) SetLocalRotation(h NodeHandle, radians float32) error {
	return t.mutateLocal(h, func(p *Pose2D) { p.Rotation = radians })
}

func (t *Transform2DTree) SetLocalScale(h NodeHandle, scale mgl32.Vec2) error {
	return t.mutateLocal(h, func(p *Pose2D) { p.Scale = scale })
}

func (t *Transform2DTree) LocalPosition(h NodeHandle) mgl32.Vec2 {
	p, _ := t.Pose(h)
	return p.Position
}

func (t *Transform2DTree) LocalRotation(h NodeHandle) float32 {
	p, _ := t.Pose(h)
	return p.Rotation
}

func (t *Transform2DTree) LocalScale(h NodeHandle) mgl32.Vec2 {
	p, _ := t.Pose(h)
	return p.Scale
}

func (t *Transform2DTree) WorldPosition(h NodeHandle) mgl32.Vec2 {
	return t.WorldMatrix(h).Col(2).Vec2()
}
