package detector

// Detect runs detection with a known terminal state.
var Detect = detect
