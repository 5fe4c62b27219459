/*
Package otbin implements the binary primitives of OpenType font files.

OpenType data is big-endian throughout and organized as a graph of tables and
sub-tables, linked by 16-bit or 32-bit offsets. Package otbin provides

▪︎ codecs for the scalar types of the OpenType specification (integers of 8, 16, 24
and 32 bits, 16.16 and 2.14 fixed-point numbers, tags, glyph IDs, LONGDATETIME),

▪︎ a cursor type `Reader` and an append-only `Writer`,

▪︎ declarative record schemas: an ordered list of named fields, each with a codec and
an optional offset role, evaluated uniformly for decoding and encoding,

▪︎ offset resolution relative to a base position (`Link`), where a zero offset denotes
an absent sub-table,

▪︎ a two-phase `Packer`, which serializes a graph of sub-tables and fills in offset
fields after every target has been placed.

Decoding never reads beyond the end of the buffer supplied. Instead, errors wrapping
`ErrTruncated` are returned.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otbin
