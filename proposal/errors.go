package proposal

import "errors"

// ErrTooManyRejections signals that maxRejections consecutive perturbed
// proposals fell outside prior support.
var ErrTooManyRejections = errors.New("proposal: exceeded maximum rejections sampling from the perturbation kernel")
