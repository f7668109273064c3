package ava

// Band is a semantic group of action ids.
// The numeric ranges are fixed by the AVA label map.
type Band int

const (
	Pose        Band = iota // id <= 10
	HumanObject             // 11 <= id <= 22
	HumanHuman              // id > 22
)

// NumPose is the number of pose actions. Pose ids are 1..NumPose.
const NumPose = 10

func BandOf(id int) Band {
	switch {
	case id <= NumPose:
		return Pose
	case id <= 22:
		return HumanObject
	default:
		return HumanHuman
	}
}

func (b Band) String() string {
	switch b {
	case Pose:
		return "pose"
	case HumanObject:
		return "human-object"
	default:
		return "human-human"
	}
}
