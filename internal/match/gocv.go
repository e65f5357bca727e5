//go:build gocv

package match

import (
	"image"

	"gocv.io/x/gocv"
)

func init() {
	Register("gocv", func() Matcher { return CVMatcher{} })
}

// CVMatcher считает ту же TM_CCOEFF_NORMED через OpenCV. Нужна сборка с тегом gocv
type CVMatcher struct{}

func (CVMatcher) MatchAll(region, template *image.Gray) (*ScoreMap, error) {
	if _, _, err := checkSizes(region, template); err != nil {
		return nil, err
	}

	src, err := gocv.ImageGrayToMatGray(region)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tpl, err := gocv.ImageGrayToMatGray(template)
	if err != nil {
		return nil, err
	}
	defer tpl.Close()

	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tpl, &res, gocv.TmCcoeffNormed, mask)

	out := NewScoreMap(res.Cols(), res.Rows())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Set(x, y, float64(res.GetFloatAt(y, x)))
		}
	}
	return out, nil
}
