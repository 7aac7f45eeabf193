package pet

import (
	"log/slog"
	"path/filepath"

	"github.com/easeaico/deskpet/internal/animation"
	"github.com/easeaico/deskpet/internal/mood"
)

// Animations is the catalog of frame sets the pet can play.
type Animations struct {
	Startup    animation.FrameSet
	Raised     animation.FrameSet
	Idle       map[mood.Band]animation.FrameSet
	Speaking   map[mood.Band]animation.FrameSet
	TouchStart animation.FrameSet
	TouchLoop  animation.FrameSet
	TouchEnd   animation.FrameSet
}

// Directory layout of the sprite pack, relative to the assets root.
var (
	startupDir    = filepath.Join("StartUP", "Nomal")
	raisedDir     = filepath.Join("Raise", "Raised_Dynamic", "Happy")
	touchStartDir = filepath.Join("Touch_Head", "A_Nomal")
	touchLoopDir  = filepath.Join("Touch_Head", "B_Nomal")
	touchEndDir   = filepath.Join("Touch_Head", "C_Nomal")

	idleDirs = map[mood.Band]string{
		mood.BandUpbeat:   filepath.Join("Default", "Happy", "1"),
		mood.BandNeutral:  filepath.Join("Default", "Nomal", "2"),
		mood.BandDownbeat: filepath.Join("Default", "PoorCondition", "2"),
	}
	speakingDirs = map[mood.Band]string{
		mood.BandUpbeat:   filepath.Join("Say", "Shining", "B_2"),
		mood.BandNeutral:  filepath.Join("Say", "Serious", "B"),
		mood.BandDownbeat: filepath.Join("Say", "Self", "B_3"),
	}
)

// LoadAnimations reads every frame set under baseDir. Missing or empty
// directories are logged and leave an empty set behind.
func LoadAnimations(baseDir string, logger *slog.Logger) Animations {
	if logger == nil {
		logger = slog.Default()
	}
	load := func(rel string) animation.FrameSet {
		dir := filepath.Join(baseDir, rel)
		set, err := animation.LoadFrameSet(dir)
		if err != nil {
			logger.Warn("failed to load animation frames", "dir", dir, "error", err.Error())
			return set
		}
		if set.IsEmpty() {
			logger.Warn("animation directory has no frames", "dir", dir)
		}
		return set
	}

	anims := Animations{
		Startup:    load(startupDir),
		Raised:     load(raisedDir),
		TouchStart: load(touchStartDir),
		TouchLoop:  load(touchLoopDir),
		TouchEnd:   load(touchEndDir),
		Idle:       make(map[mood.Band]animation.FrameSet, len(idleDirs)),
		Speaking:   make(map[mood.Band]animation.FrameSet, len(speakingDirs)),
	}
	for band, rel := range idleDirs {
		anims.Idle[band] = load(rel)
	}
	for band, rel := range speakingDirs {
		anims.Speaking[band] = load(rel)
	}
	return anims
}

// Named lists every set under a stable name, for inventories.
func (a Animations) Named() map[string]animation.FrameSet {
	named := map[string]animation.FrameSet{
		"startup":     a.Startup,
		"raised":      a.Raised,
		"touch-start": a.TouchStart,
		"touch-loop":  a.TouchLoop,
		"touch-end":   a.TouchEnd,
	}
	for band, set := range a.Idle {
		named["idle-"+string(band)] = set
	}
	for band, set := range a.Speaking {
		named["speaking-"+string(band)] = set
	}
	return named
}
