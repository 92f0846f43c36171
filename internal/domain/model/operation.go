package model

// OperationArea identifies the part of the target system an update operation touches.
type OperationArea string

const (
	OperationAreaFiles     OperationArea = "files"
	OperationAreaRegistry  OperationArea = "registry"
	OperationAreaProcesses OperationArea = "processes"
	OperationAreaServices  OperationArea = "services"
	OperationAreaScripts   OperationArea = "scripts"
)

// OperationMethod identifies what an update operation does within its area.
type OperationMethod string

const (
	OperationMethodCreate  OperationMethod = "create"
	OperationMethodDelete  OperationMethod = "delete"
	OperationMethodRename  OperationMethod = "rename"
	OperationMethodEdit    OperationMethod = "edit"
	OperationMethodStart   OperationMethod = "start"
	OperationMethodStop    OperationMethod = "stop"
	OperationMethodExecute OperationMethod = "execute"
)

// Operation is a single step an update package performs on the client.
// Value carries the area-specific payload (paths, registry keys, script text).
type Operation struct {
	Area   OperationArea
	Method OperationMethod
	Value  any
}

// OperationPanel is implemented by wizard steps that configure one operation.
// The hosting wizard reads the operation only when the panel reports it is valid.
type OperationPanel interface {
	// Operation returns the operation the panel currently describes.
	Operation() Operation

	// IsValid reports whether the panel's input forms a complete operation.
	IsValid() bool
}
