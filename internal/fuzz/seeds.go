package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// languageSeeds cover every statement and item form at least once.
var languageSeeds = []string{
	"",
	"var x = 1;\nlist l = [1, \"two\", -3];\n",
	"def f a, b { say a + b; }\nonflag { f 1, 2; }\n",
	"warp def spin n { repeat n { turn_right 15; } }\n",
	"nowarp def wait_a_bit { wait 1; }\n",
	"onflag { if x > 1 { say x; } else if x < 0 { hide; } else { show; } }\n",
	"onflag { until x = 0 { x -= 1; } forever { next_costume; } }\n",
	"onflag { L[1] = \"a\"; add 4 to L; delete L[1]; delete L; insert 5 at L[2]; }\n",
	"onkey \"space\" { }\nonbroadcast \"go\" { broadcast_and_wait \"done\"; }\n",
	"onclick { create_clone; }\nonclone { delete_this_clone; }\n",
	"onflag { say length(\"cat\") * (2 + -x) / random(1, 10) % 3; }\n",
	"onflag { say not (a and b or c); }\n",
	"/* unterminated",
	"onflag { say \"\\q\"; }\n",
	"def def def {{{ ;;; }}}",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.gs файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".gs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
