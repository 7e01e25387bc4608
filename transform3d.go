package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Pose3D struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityPose3D() Pose3D {
	return Pose3D{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns T * R * S.
func (p Pose3D) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	rotate := p.Rotation.Mat4()
	scale := mgl32.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

type Transform3DTree struct {
	transformTree[Pose3D, mgl32.Mat4]
}

func NewTransform3DTree() *Transform3DTree {
	return &Transform3DTree{
		transformTree: newTransformTree(
			Pose3D.Matrix,
			func(parent, local mgl32.Mat4) mgl32.Mat4 { return parent.Mul4(local) },
			mgl32.Ident4(),
		),
	}
}

func (t *Transform3DTree) SetLocalPosition(h NodeHandle, position mgl32.Vec3) error {
	return t.mutateLocal(h, func(p *Pose3D) { p.Position = position })
}

func (t *Transform3DTree) SetLocalRotation(h NodeHandle, rotation mgl32.Quat) error {
	return t.mutateLocal(h, func(p *Pose3D) { p.Rotation = rotation })
}

func (t *Transform3DTree) SetLocalScale(h NodeHandle, scale mgl32.Vec3) error {
	return t.mutateLocal(h, func(p *Pose3D) { p.Scale = scale })
}

func (t *Transform3DTree) LocalPosition(h NodeHandle) mgl32.Vec3 {
	p, _ := t.Pose(h)
	return p.Position
}

func (t *Transform3DTree) LocalRotation(h NodeHandle) mgl32.Quat {
	p, _ := t.Pose(h)
	return p.Rotation
}

func (t *Transform3DTree) LocalScale(h NodeHandle) mgl32.Vec3 {
	p, _ := t.Pose(h)
	return p.Scale
}

// WorldPosition is the translation column of the world matrix.
func (t *Transform3DTree) WorldPosition(h NodeHandle) mgl32.Vec3 {
	return t.WorldMatrix(h).Col(3).Vec3()
}
