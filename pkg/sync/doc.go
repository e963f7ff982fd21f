/*
The sync package implements galaxysync's sync algorithm. It mirrors a local
directory tree into a Galaxy data library, and then exposes the library's
files in a Galaxy history.

There are two stages:
1) Library -- The library's folders and files are listed once, and the local
   tree is diffed against them by path. Missing folders are created parent
   first, and the files that aren't in the library yet are uploaded with one
   request per directory.
2) History -- The newest history created by galaxysync for the library is
   reused (or a new one is created), and the library files that it doesn't
   contain yet are imported into it.

Both stages are idempotent: re-running a sync over an unchanged tree makes no
changes to Galaxy. Identity is by path, so a file whose contents change isn't
re-uploaded, and nothing is ever deleted from Galaxy.

All state is rebuilt from Galaxy's listings on every run. Nothing is persisted
locally.
*/
package sync
