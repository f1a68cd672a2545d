package common

// PageSize is the fixed size in bytes of every page-sized buffer the pool
// hands out. It is a build-time constant; changing it invalidates any
// existing on-disk files.
const PageSize = 4096
