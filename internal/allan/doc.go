// Package allan separates the noise of a static range-sensor recording into
// white measurement noise and random-walk bias drift via Allan-deviation
// analysis.
//
// The pipeline is: block-average the series at a set of cluster sizes to get
// an Allan curve, locate the -1/2 and +1/2 slope regions of the log-log
// curve with a sliding-window regression, and back-transform the fitted
// intercepts into the white-noise variance R [mm²] and the random-walk
// intensity q [mm²/s]. All stages are pure functions over immutable values;
// identical inputs always produce bit-identical output.
package allan
