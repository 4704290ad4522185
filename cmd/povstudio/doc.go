// Command povstudio manages a local library of branching-video projects:
// creating and listing projects, cataloging binary assets, and moving whole
// projects in and out of portable .pov archives.
package main
