package lighting

import (
	"testing"

	"github.com/Faultbox/shadowview/pkg/formats"
)

func TestDefault(t *testing.T) {
	l := Default()
	if l.Diffuse != formats.White || l.Specular != formats.White {
		t.Errorf("diffuse/specular = %v/%v, want white", l.Diffuse, l.Specular)
	}
	want := float32(40.0 / 255)
	if l.Ambient.R != want || l.Ambient.G != want || l.Ambient.B != want {
		t.Errorf("ambient = %v, want grey %v", l.Ambient, want)
	}
}
