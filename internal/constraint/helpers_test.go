package constraint

import "github.com/specialistvlad/manigraph/internal/model"

func modelJoint(name string, rank, size int) model.Joint {
	return model.Joint{Name: name, Rank: rank, Size: size}
}
